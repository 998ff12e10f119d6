package store

import (
	"time"

	"github.com/icetlab/assettrack/auth"
	"github.com/uptrace/bun"
)

// User is the account row behind login. Role values are defined in the auth
// package; everything else here is plain account bookkeeping.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64         `bun:"user_id,pk,autoincrement" json:"user_id"`
	Username     string        `bun:"username,notnull,unique" json:"username"`
	PasswordHash string        `bun:"password_hash,notnull" json:"-"`
	FullName     string        `bun:"full_name,notnull" json:"full_name"`
	Email        string        `bun:"email" json:"email,omitempty"`
	Role         auth.UserRole `bun:"role,notnull" json:"role"`
	Active       bool          `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt    time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt    *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AuditLog is an append-only trail of who did what to which record.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_log,alias:al"`

	ID        int64     `bun:"log_id,pk,autoincrement" json:"log_id"`
	UserID    int64     `bun:"user_id" json:"user_id"`
	Action    string    `bun:"action,notnull" json:"action"`
	TableName string    `bun:"table_name" json:"table_name"`
	RecordID  int64     `bun:"record_id" json:"record_id"`
	OldValues string    `bun:"old_values" json:"old_values,omitempty"`
	NewValues string    `bun:"new_values" json:"new_values,omitempty"`
	IPAddress string    `bun:"ip_address" json:"ip_address,omitempty"`
	UserAgent string    `bun:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// DeviceType is a lookup row (projector, PC, printer, ...).
type DeviceType struct {
	bun.BaseModel `bun:"table:device_types,alias:dt"`

	ID          int64  `bun:"type_id,pk,autoincrement" json:"type_id"`
	Name        string `bun:"type_name,notnull,unique" json:"type_name"`
	Description string `bun:"description" json:"description,omitempty"`
}

// DeviceBrand is a lookup row.
type DeviceBrand struct {
	bun.BaseModel `bun:"table:device_brands,alias:db"`

	ID   int64  `bun:"brand_id,pk,autoincrement" json:"brand_id"`
	Name string `bun:"brand_name,notnull,unique" json:"brand_name"`
}

// Device is a tracked asset. Date-only fields ride as YYYY-MM-DD strings, the
// way the clients submit them.
type Device struct {
	bun.BaseModel `bun:"table:devices,alias:d"`

	ID             int64      `bun:"device_id,pk,autoincrement" json:"device_id"`
	UniqueID       string     `bun:"device_unique_id,notnull,unique" json:"device_unique_id"`
	TypeID         int64      `bun:"type_id,notnull" json:"type_id"`
	BrandID        int64      `bun:"brand_id,notnull" json:"brand_id"`
	Model          string     `bun:"model" json:"model,omitempty"`
	SerialNumber   string     `bun:"serial_number" json:"serial_number,omitempty"`
	PurchaseDate   string     `bun:"purchase_date" json:"purchase_date,omitempty"`
	WarrantyPeriod string     `bun:"warranty_period" json:"warranty_period,omitempty"`
	Notes          string     `bun:"notes" json:"notes,omitempty"`
	Active         bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	DeletedBy      *int64     `bun:"deleted_by" json:"deleted_by,omitempty"`

	Type  *DeviceType  `bun:"rel:belongs-to,join:type_id=type_id" json:"type,omitempty"`
	Brand *DeviceBrand `bun:"rel:belongs-to,join:brand_id=brand_id" json:"brand,omitempty"`
}

// Room is a location devices get installed into.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID        int64      `bun:"room_id,pk,autoincrement" json:"room_id"`
	Number    string     `bun:"room_number,notnull,unique" json:"room_number"`
	Name      string     `bun:"room_name,notnull" json:"room_name"`
	Building  string     `bun:"building" json:"building,omitempty"`
	Floor     string     `bun:"floor" json:"floor,omitempty"`
	Capacity  int        `bun:"capacity" json:"capacity,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`

	// populated by list queries, not a column
	DeviceCount int `bun:"device_count,scanonly" json:"device_count"`
}

// Installation statuses and types.
const (
	InstallationActive    = "active"
	InstallationWithdrawn = "withdrawn"

	InstallTypeNew       = "NEW_INSTALLATION"
	InstallTypeRepaired  = "REPAIRED"
	InstallTypeReinstall = "OLD_REINSTALL"
)

// Installation records a device's stay in a room, from installed to withdrawn.
// A device has at most one active installation at a time.
type Installation struct {
	bun.BaseModel `bun:"table:device_installations,alias:di"`

	ID                int64      `bun:"installation_id,pk,autoincrement" json:"installation_id"`
	DeviceID          int64      `bun:"device_id,notnull" json:"device_id"`
	RoomID            int64      `bun:"room_id,notnull" json:"room_id"`
	InstalledDate     string     `bun:"installed_date,notnull" json:"installed_date"`
	WithdrawnDate     string     `bun:"withdrawn_date" json:"withdrawn_date,omitempty"`
	Status            string     `bun:"status,notnull,default:'active'" json:"status"`
	InstallationType  string     `bun:"installation_type" json:"installation_type,omitempty"`
	InstallationNotes string     `bun:"installation_notes" json:"installation_notes,omitempty"`
	WithdrawalNotes   string     `bun:"withdrawal_notes" json:"withdrawal_notes,omitempty"`
	TeamMembers       string     `bun:"team_members" json:"team_members,omitempty"`
	IssueAtWithdrawal string     `bun:"issue_at_withdrawal" json:"issue_at_withdrawal,omitempty"`
	StorageLocation   string     `bun:"storage_location" json:"storage_location,omitempty"`
	GatePassNumber    string     `bun:"gate_pass_number" json:"gate_pass_number,omitempty"`
	GatePassDate      string     `bun:"gate_pass_date" json:"gate_pass_date,omitempty"`
	InstallerName     string     `bun:"installer_name" json:"installer_name,omitempty"`
	InstalledBy       int64      `bun:"installed_by" json:"installed_by,omitempty"`
	WithdrawerName    string     `bun:"withdrawer_name" json:"withdrawer_name,omitempty"`
	WithdrawnBy       int64      `bun:"withdrawn_by" json:"withdrawn_by,omitempty"`
	DataEntryBy       int64      `bun:"data_entry_by" json:"data_entry_by,omitempty"`
	CreatedAt         time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	DeletedAt         *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	DeletedBy         *int64     `bun:"deleted_by" json:"deleted_by,omitempty"`

	Device *Device `bun:"rel:belongs-to,join:device_id=device_id" json:"device,omitempty"`
	Room   *Room   `bun:"rel:belongs-to,join:room_id=room_id" json:"room,omitempty"`
}

// GatePass is a signed-off removal document covering one or more devices.
type GatePass struct {
	bun.BaseModel `bun:"table:gate_passes,alias:gp"`

	ID                  int64      `bun:"gate_pass_id,pk,autoincrement" json:"gate_pass_id"`
	Number              string     `bun:"gate_pass_number,notnull,unique" json:"gate_pass_number"`
	Date                string     `bun:"gate_pass_date,notnull" json:"gate_pass_date"`
	ConsigneeName       string     `bun:"consignee_name,notnull" json:"consignee_name"`
	Destination         string     `bun:"destination,notnull" json:"destination"`
	CarrierName         string     `bun:"carrier_name,notnull" json:"carrier_name"`
	CarrierAppointment  string     `bun:"carrier_appointment" json:"carrier_appointment,omitempty"`
	CarrierDepartment   string     `bun:"carrier_department" json:"carrier_department,omitempty"`
	CarrierTelephone    string     `bun:"carrier_telephone" json:"carrier_telephone,omitempty"`
	SecurityName        string     `bun:"security_name" json:"security_name,omitempty"`
	SecurityAppointment string     `bun:"security_appointment" json:"security_appointment,omitempty"`
	SecurityDepartment  string     `bun:"security_department" json:"security_department,omitempty"`
	SecurityTelephone   string     `bun:"security_telephone" json:"security_telephone,omitempty"`
	ReceiverName        string     `bun:"receiver_name" json:"receiver_name,omitempty"`
	ReceiverAppointment string     `bun:"receiver_appointment" json:"receiver_appointment,omitempty"`
	ReceiverDepartment  string     `bun:"receiver_department" json:"receiver_department,omitempty"`
	ReceiverTelephone   string     `bun:"receiver_telephone" json:"receiver_telephone,omitempty"`
	Status              string     `bun:"status,notnull,default:'active'" json:"status"`
	CreatedBy           int64      `bun:"created_by" json:"created_by,omitempty"`
	CreatedAt           time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	DeletedAt           *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	DeletedBy           *int64     `bun:"deleted_by" json:"deleted_by,omitempty"`

	Devices []*Device `bun:"m2m:gate_pass_devices,join:GatePass=Device" json:"devices,omitempty"`

	// populated by list queries, not a column
	DeviceCount int `bun:"device_count,scanonly" json:"device_count"`
}

// GatePassDevice joins gate passes to the devices they cover.
type GatePassDevice struct {
	bun.BaseModel `bun:"table:gate_pass_devices,alias:gpd"`

	GatePassID int64     `bun:"gate_pass_id,pk" json:"gate_pass_id"`
	DeviceID   int64     `bun:"device_id,pk" json:"device_id"`
	GatePass   *GatePass `bun:"rel:belongs-to,join:gate_pass_id=gate_pass_id" json:"-"`
	Device     *Device   `bun:"rel:belongs-to,join:device_id=device_id" json:"-"`
}

// SupportMember is a support team member; optionally linked to a login account.
type SupportMember struct {
	bun.BaseModel `bun:"table:support_team_members,alias:stm"`

	ID         int64     `bun:"member_id,pk,autoincrement" json:"member_id"`
	UserID     *int64    `bun:"user_id" json:"user_id,omitempty"`
	Name       string    `bun:"member_name,notnull" json:"member_name"`
	Email      string    `bun:"member_email" json:"member_email,omitempty"`
	Phone      string    `bun:"member_phone" json:"member_phone,omitempty"`
	Department string    `bun:"department" json:"department,omitempty"`
	Active     bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedBy  int64     `bun:"created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// SupportRecord is a classroom support visit.
type SupportRecord struct {
	bun.BaseModel `bun:"table:classroom_support_records,alias:csr"`

	ID              int64      `bun:"support_id,pk,autoincrement" json:"support_id"`
	MemberID        int64      `bun:"member_id,notnull" json:"member_id"`
	SupportDate     string     `bun:"support_date,notnull" json:"support_date"`
	SupportTime     string     `bun:"support_time,notnull" json:"support_time"`
	Location        string     `bun:"location,notnull" json:"location"`
	RoomID          *int64     `bun:"room_id" json:"room_id,omitempty"`
	Description     string     `bun:"support_description,notnull" json:"support_description"`
	IssueType       string     `bun:"issue_type" json:"issue_type,omitempty"`
	Priority        string     `bun:"priority" json:"priority,omitempty"`
	Status          string     `bun:"status" json:"status,omitempty"`
	DevicesInvolved string     `bun:"devices_involved" json:"devices_involved,omitempty"`
	DurationMinutes int        `bun:"duration_minutes" json:"duration_minutes,omitempty"`
	FacultyName     string     `bun:"faculty_name" json:"faculty_name,omitempty"`
	Notes           string     `bun:"notes" json:"notes,omitempty"`
	CreatedBy       int64      `bun:"created_by" json:"created_by"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt       *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	DeletedBy       *int64     `bun:"deleted_by" json:"deleted_by,omitempty"`

	Member *SupportMember `bun:"rel:belongs-to,join:member_id=member_id" json:"member,omitempty"`
	Room   *Room          `bun:"rel:belongs-to,join:room_id=room_id" json:"room,omitempty"`
}

// Blog post statuses and the accepted reaction set.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

// ValidReactions is the closed set of reaction types a post accepts.
var ValidReactions = []string{"like", "love", "celebrate", "insightful"}

// BlogCategory groups posts.
type BlogCategory struct {
	bun.BaseModel `bun:"table:blog_categories,alias:bc"`

	ID   int64  `bun:"category_id,pk,autoincrement" json:"category_id"`
	Name string `bun:"category_name,notnull" json:"category_name"`
	Slug string `bun:"category_slug,notnull,unique" json:"category_slug"`

	// populated by list queries, not a column
	PostCount int `bun:"post_count,scanonly" json:"post_count"`
}

// BlogPost is a department announcement or article.
type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts,alias:p"`

	ID            int64      `bun:"post_id,pk,autoincrement" json:"post_id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	Excerpt       string     `bun:"excerpt" json:"excerpt,omitempty"`
	CategoryID    *int64     `bun:"category_id" json:"category_id,omitempty"`
	AuthorID      int64      `bun:"author_id,notnull" json:"author_id"`
	FeaturedImage string     `bun:"featured_image" json:"featured_image,omitempty"`
	Status        string     `bun:"status,notnull,default:'draft'" json:"status"`
	ViewCount     int64      `bun:"view_count,notnull,default:0" json:"view_count"`
	Pinned        bool       `bun:"is_pinned,notnull,default:false" json:"is_pinned"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Category *BlogCategory `bun:"rel:belongs-to,join:category_id=category_id" json:"category,omitempty"`
	Author   *User         `bun:"rel:belongs-to,join:author_id=user_id" json:"author,omitempty"`

	// populated by list queries, not columns
	CommentCount  int `bun:"comment_count,scanonly" json:"comment_count"`
	ReactionCount int `bun:"reaction_count,scanonly" json:"reaction_count"`
}

// BlogComment is a comment or a reply (ParentID set) on a post.
type BlogComment struct {
	bun.BaseModel `bun:"table:blog_comments,alias:c"`

	ID        int64      `bun:"comment_id,pk,autoincrement" json:"comment_id"`
	PostID    int64      `bun:"post_id,notnull" json:"post_id"`
	UserID    int64      `bun:"user_id,notnull" json:"user_id"`
	ParentID  *int64     `bun:"parent_comment_id" json:"parent_comment_id,omitempty"`
	Text      string     `bun:"comment_text,notnull" json:"comment_text"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`

	User *User `bun:"rel:belongs-to,join:user_id=user_id" json:"user,omitempty"`

	Replies []*BlogComment `bun:"-" json:"replies,omitempty"`
}

// BlogReaction is one user's reaction to one post.
type BlogReaction struct {
	bun.BaseModel `bun:"table:blog_reactions,alias:br"`

	ID        int64     `bun:"reaction_id,pk,autoincrement" json:"reaction_id"`
	PostID    int64     `bun:"post_id,notnull" json:"post_id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Type      string    `bun:"reaction_type,notnull" json:"reaction_type"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
