package app

// Screen represents the current view in the application
type Screen int

const (
	ScreenPanel Screen = iota
	ScreenHistory
)

func (s Screen) String() string {
	names := []string{
		"Panel",
		"History",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}
