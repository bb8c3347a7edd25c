package entity

// Streak is the result of folding a user's confirmation log.
type Streak struct {
	// Current is the length of the unbroken success run ending at the
	// last confirmed date.
	Current int

	// Best is the longest success run anywhere in the log.
	Best int

	// LastConfirmedDate is the date of the most recent confirmed log,
	// or "" when nothing has been confirmed yet.
	LastConfirmedDate string
}
