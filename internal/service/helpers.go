package service

// optional maps an empty string to nil for nullable text columns.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
