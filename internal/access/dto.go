package access

// RoleResponse is the wire form of a Role.
type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateRoleRequest creates a new role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description"`
}

// ElementResponse is the wire form of a BusinessElement.
type ElementResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateElementRequest creates a new business element.
type CreateElementRequest struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=100"`
}

// BindRoleRequest rebinds a user to a role, replacing any prior binding.
type BindRoleRequest struct {
	User int64 `json:"user" validate:"required,gt=0"`
	Role int64 `json:"role" validate:"required,gt=0"`
}

// RuleResponse is the wire form of an AccessRule. Flag names mirror the
// stored columns.
type RuleResponse struct {
	ID        int64 `json:"id"`
	Role      int64 `json:"role"`
	Element   int64 `json:"element"`
	Read      bool  `json:"read_permission"`
	ReadAll   bool  `json:"read_all_permission"`
	Create    bool  `json:"create_permission"`
	Update    bool  `json:"update_permission"`
	UpdateAll bool  `json:"update_all_permission"`
	Delete    bool  `json:"delete_permission"`
	DeleteAll bool  `json:"delete_all_permission"`
}

// CreateRuleRequest creates a rule for a (role, element) pair. Omitted flags
// default to false.
type CreateRuleRequest struct {
	Role      int64 `json:"role" validate:"required,gt=0"`
	Element   int64 `json:"element" validate:"required,gt=0"`
	Read      bool  `json:"read_permission"`
	ReadAll   bool  `json:"read_all_permission"`
	Create    bool  `json:"create_permission"`
	Update    bool  `json:"update_permission"`
	UpdateAll bool  `json:"update_all_permission"`
	Delete    bool  `json:"delete_permission"`
	DeleteAll bool  `json:"delete_all_permission"`
}

// PatchRuleRequest is a merge-patch of rule flags: absent fields keep their
// prior values.
type PatchRuleRequest struct {
	Read      *bool `json:"read_permission"`
	ReadAll   *bool `json:"read_all_permission"`
	Create    *bool `json:"create_permission"`
	Update    *bool `json:"update_permission"`
	UpdateAll *bool `json:"update_all_permission"`
	Delete    *bool `json:"delete_permission"`
	DeleteAll *bool `json:"delete_all_permission"`
}

func toRoleResponse(role Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name, Description: role.Description}
}

func toElementResponse(element BusinessElement) ElementResponse {
	return ElementResponse{ID: element.ID, Code: element.Code, Name: element.Name}
}

func toRuleResponse(rule AccessRule) RuleResponse {
	return RuleResponse{
		ID:        rule.ID,
		Role:      rule.RoleID,
		Element:   rule.ElementID,
		Read:      rule.Read,
		ReadAll:   rule.ReadAll,
		Create:    rule.Create,
		Update:    rule.Update,
		UpdateAll: rule.UpdateAll,
		Delete:    rule.Delete,
		DeleteAll: rule.DeleteAll,
	}
}
