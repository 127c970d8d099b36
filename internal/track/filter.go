package track

// FilterExtendedSquitter keeps the records that carried DF17 or DF18 traffic, preserving order
func FilterExtendedSquitter(records []*Record) []*Record {
	kept := make([]*Record, 0, len(records))
	for _, rec := range records {
		if rec.HasExtendedSquitter() {
			kept = append(kept, rec)
		}
	}
	return kept
}
