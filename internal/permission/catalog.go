package permission

// Resources of the workforce application.
const (
	ResourceCompany       = "company"
	ResourceUsers         = "users"
	ResourcePermissions   = "permissions"
	ResourceWorkHours     = "work_hours"
	ResourceDocuments     = "documents"
	ResourceInvoices      = "invoices"
	ResourceInventory     = "inventory"
	ResourceProjects      = "projects"
	ResourceNotifications = "notifications"
)

// Actions used by the catalog.
const (
	ActionView    = "view"
	ActionViewAll = "view_all"
	ActionCreate  = "create"
	ActionLog     = "log"
	ActionEdit    = "edit"
	ActionApprove = "approve"
	ActionUpload  = "upload"
	ActionDelete  = "delete"
	ActionInvite  = "invite"
	ActionSend    = "send"
	ActionManage  = "manage"
)

// Names of the built-in roles.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
)

// Key identifies a permission by resource and action.
type Key struct {
	Resource string
	Action   string
}

// String returns the resource.action form.
func (k Key) String() string {
	return k.Resource + "." + k.Action
}

// CatalogPermission is one permission of the built-in catalog.
type CatalogPermission struct {
	Key
	Description string
}

// CatalogRole is a built-in role with its default grants.
type CatalogRole struct {
	Name           string
	Description    string
	HierarchyLevel int
	Grants         []Key
}

// Permissions is the built-in permission catalog.
var Permissions = []CatalogPermission{ //nolint:gochecknoglobals
	{Key{ResourceCompany, ActionView}, "View company profile"},
	{Key{ResourceCompany, ActionManage}, "Edit company profile and billing"},
	{Key{ResourceUsers, ActionView}, "View company members"},
	{Key{ResourceUsers, ActionInvite}, "Invite new members"},
	{Key{ResourceUsers, ActionManage}, "Change member roles and deactivate members"},
	{Key{ResourcePermissions, ActionView}, "View role and member permissions"},
	{Key{ResourcePermissions, ActionManage}, "Customize role permissions and member overrides"},
	{Key{ResourceWorkHours, ActionLog}, "Log own working hours"},
	{Key{ResourceWorkHours, ActionView}, "View own working hours"},
	{Key{ResourceWorkHours, ActionViewAll}, "View working hours of all members"},
	{Key{ResourceWorkHours, ActionEdit}, "Edit working hours of all members"},
	{Key{ResourceWorkHours, ActionApprove}, "Approve working hours"},
	{Key{ResourceDocuments, ActionView}, "View documents"},
	{Key{ResourceDocuments, ActionUpload}, "Upload documents"},
	{Key{ResourceDocuments, ActionDelete}, "Delete documents"},
	{Key{ResourceInvoices, ActionView}, "View invoices"},
	{Key{ResourceInvoices, ActionCreate}, "Create invoices"},
	{Key{ResourceInvoices, ActionApprove}, "Approve and send invoices"},
	{Key{ResourceInvoices, ActionDelete}, "Delete invoices"},
	{Key{ResourceInventory, ActionView}, "View inventory"},
	{Key{ResourceInventory, ActionManage}, "Add, move and write off inventory"},
	{Key{ResourceProjects, ActionView}, "View projects"},
	{Key{ResourceProjects, ActionCreate}, "Create projects"},
	{Key{ResourceProjects, ActionManage}, "Edit and archive projects"},
	{Key{ResourceNotifications, ActionSend}, "Send notifications to members"},
}

// Roles is the built-in role catalog, ordered from most to least senior.
var Roles = []CatalogRole{ //nolint:gochecknoglobals
	{
		Name:           RoleOwner,
		Description:    "Company owner with full access",
		HierarchyLevel: 1,
		Grants:         allKeys(),
	},
	{
		Name:           RoleAdmin,
		Description:    "Administers members, permissions and company data",
		HierarchyLevel: 2,
		Grants:         allKeysExcept(Key{ResourceCompany, ActionManage}),
	},
	{
		Name:           RoleManager,
		Description:    "Runs projects and approves working hours",
		HierarchyLevel: 3,
		Grants: []Key{
			{ResourceCompany, ActionView},
			{ResourceUsers, ActionView},
			{ResourcePermissions, ActionView},
			{ResourceWorkHours, ActionLog},
			{ResourceWorkHours, ActionView},
			{ResourceWorkHours, ActionViewAll},
			{ResourceWorkHours, ActionApprove},
			{ResourceDocuments, ActionView},
			{ResourceDocuments, ActionUpload},
			{ResourceInvoices, ActionView},
			{ResourceInvoices, ActionCreate},
			{ResourceInventory, ActionView},
			{ResourceInventory, ActionManage},
			{ResourceProjects, ActionView},
			{ResourceProjects, ActionCreate},
			{ResourceProjects, ActionManage},
			{ResourceNotifications, ActionSend},
		},
	},
	{
		Name:           RoleWorker,
		Description:    "Field worker logging hours on assigned projects",
		HierarchyLevel: 4,
		Grants: []Key{
			{ResourceCompany, ActionView},
			{ResourceWorkHours, ActionLog},
			{ResourceWorkHours, ActionView},
			{ResourceDocuments, ActionView},
			{ResourceInventory, ActionView},
			{ResourceProjects, ActionView},
		},
	},
}

func allKeys() []Key {
	keys := make([]Key, 0, len(Permissions))
	for _, p := range Permissions {
		keys = append(keys, p.Key)
	}

	return keys
}

func allKeysExcept(excluded ...Key) []Key {
	skip := make(map[Key]bool, len(excluded))
	for _, k := range excluded {
		skip[k] = true
	}

	keys := make([]Key, 0, len(Permissions))
	for _, p := range Permissions {
		if !skip[p.Key] {
			keys = append(keys, p.Key)
		}
	}

	return keys
}
