package services

// GrantsPermission evaluates whether an effective permission set includes
// the requested permission. Matching is exact; there is no wildcarding.
func GrantsPermission(permissions []string, permission string) bool {
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
