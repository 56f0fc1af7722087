package models

type GlobalRole string

const (
	RoleSuperAdmin  GlobalRole = "superadmin"
	RoleTeamLead    GlobalRole = "teamlead"
	RoleProjectLead GlobalRole = "projectlead"
	RoleMember      GlobalRole = "member"
)

var globalRoleHumanName = map[GlobalRole]string{
	RoleSuperAdmin:  "Superadmin",
	RoleTeamLead:    "Team Lead",
	RoleProjectLead: "Project Lead",
	RoleMember:      "Member",
}

func (r GlobalRole) ToHuman() string {
	if human, exist := globalRoleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r GlobalRole) IsValid() bool {
	_, exist := globalRoleHumanName[r]
	return exist
}

// ProjectRole is the per-project role of a membership. It may differ from the
// member's global role and wins when selecting the task approval tier.
type ProjectRole string

const (
	ProjectRoleTeamLead    ProjectRole = "teamlead"
	ProjectRoleProjectLead ProjectRole = "projectlead"
	ProjectRoleMember      ProjectRole = "member"
)

func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleTeamLead, ProjectRoleProjectLead, ProjectRoleMember:
		return true
	}
	return false
}
