package quiz

// CanView reports whether a viewer with role may see quiz scores given the
// linked application's status. Employers always can; candidates only once
// the employer has moved the application past review.
func CanView(role Role, status ApplicationStatus) bool {
	switch role {
	case RoleEmployer:
		return true
	case RoleEmployee:
		switch status {
		case ApplicationInterview, ApplicationAccepted, ApplicationRejected:
			return true
		}
	}
	return false
}
