package employee

// Actor is the caller identity the HTTP layer hands to services: who is
// acting and with what role. The engine gates transitions with it but does
// not authenticate; that happens upstream.
type Actor struct {
	EmployeeID string
	Role       Role
}
