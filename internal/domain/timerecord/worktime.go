package timerecord

// CalculateWorkedMinutes returns the minutes between entry and exit minus the
// lunch interval, never less than zero. A missing entry or exit yields 0. The
// lunch interval is only deducted when both bounds are present and lunchEnd is
// after lunchStart.
//
// An inverted lunch window is intentionally neutral and deducts nothing.
// ValidateWindows rejects such a window before a record is stored.
func CalculateWorkedMinutes(entry, exit, lunchStart, lunchEnd *ClockTime) int {
	if entry == nil || exit == nil {
		return 0
	}

	total := exit.Minutes() - entry.Minutes()
	if lunchStart != nil && lunchEnd != nil && *lunchEnd > *lunchStart {
		total -= lunchEnd.Minutes() - lunchStart.Minutes()
	}

	if total < 0 {
		return 0
	}
	return total
}
