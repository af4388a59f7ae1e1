package auth

// Role identifies a staff function within the clinic. Role codes are the
// French labels used throughout the organisation and are stored verbatim in
// the users table and in JWT claims.
type Role string

const (
	RoleAdmin                Role = "ADMIN"
	RolePDG                  Role = "PDG"
	RoleRH                   Role = "RH"
	RoleCaissier             Role = "CAISSIER"
	RoleLogisticien          Role = "LOGISTICIEN"
	RoleMedecin              Role = "MEDECIN"
	RoleAgentHospitalisation Role = "AGENT_HOSPITALISATION"
	RoleLaborantin           Role = "LABORANTIN"
	RoleAgentMaternite       Role = "AGENT_MATERNITE"
)

// AllRoles lists every valid role code.
var AllRoles = []Role{
	RoleAdmin,
	RolePDG,
	RoleRH,
	RoleCaissier,
	RoleLogisticien,
	RoleMedecin,
	RoleAgentHospitalisation,
	RoleLaborantin,
	RoleAgentMaternite,
}

// ValidRole reports whether s is a recognised role code.
func ValidRole(s string) bool {
	for _, r := range AllRoles {
		if Role(s) == r {
			return true
		}
	}
	return false
}

// dashboardPaths maps each role to the base path of its dashboard in the
// web interface.
var dashboardPaths = map[Role]string{
	RoleAdmin:                "/admin",
	RolePDG:                  "/pdg",
	RoleRH:                   "/rh",
	RoleCaissier:             "/caissier",
	RoleLogisticien:          "/logisticien",
	RoleMedecin:              "/medecin",
	RoleAgentHospitalisation: "/agent-hospitalisation",
	RoleLaborantin:           "/laborantin",
	RoleAgentMaternite:       "/agent-maternite",
}

// DashboardPath returns the dashboard base path for a role. Unknown roles
// fall back to the generic /dashboard path so a misconfigured account still
// lands somewhere rather than looping on the login page.
func DashboardPath(r Role) string {
	if p, ok := dashboardPaths[r]; ok {
		return p
	}
	return "/dashboard"
}
