package entities

// DayAvailability is the single-date availability verdict served by the
// public availability endpoint.
type DayAvailability struct {
	Date      string
	Available bool
	Slots     int
	Reason    string
}
