package models

import "time"

// FileType classifies a file inside a policy version.
type FileType string

const (
	FileTypeTypeEnforcement FileType = "te"
	FileTypeFileContexts    FileType = "fc"
	FileTypeInterface       FileType = "if"
	FileTypePolicyPackage   FileType = "pp"
	FileTypeCIL             FileType = "cil"
	FileTypeOther           FileType = "other"
)

// ValidFileType reports whether t is one of the known file type values.
func ValidFileType(t FileType) bool {
	switch t {
	case FileTypeTypeEnforcement, FileTypeFileContexts, FileTypeInterface,
		FileTypePolicyPackage, FileTypeCIL, FileTypeOther:
		return true
	}
	return false
}

type User struct {
	ID         int64     `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	Password   string    `db:"password_hash" json:"-"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	IsStaff    bool      `db:"is_staff" json:"is_staff"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns "first last", falling back to the username.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

type UserProfile struct {
	ID                     int64     `db:"id" json:"id"`
	UserID                 int64     `db:"user_id" json:"user_id"`
	NotificationPrefs      string    `db:"notification_preferences" json:"notification_preferences"`
	EmailVerified          bool      `db:"email_verified" json:"email_verified"`
	EmailVerificationToken string    `db:"email_verification_token" json:"-"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

type Contributor struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Description string    `db:"description" json:"description"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url"`
	Company     string    `db:"company" json:"company"`
	Website     string    `db:"website" json:"website"`
	Email       string    `db:"email" json:"email"`
	IsVerified  bool      `db:"is_verified" json:"is_verified"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	IsPersonal  bool      `db:"is_personal" json:"is_personal"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Policy struct {
	ID               int64     `db:"id" json:"id"`
	ContributorID    int64     `db:"contributor_id" json:"contributor_id"`
	Name             string    `db:"name" json:"name"`
	DisplayName      string    `db:"display_name" json:"display_name"`
	Description      string    `db:"description" json:"description"`
	RepositoryURL    string    `db:"repository_url" json:"repository_url"`
	RepositoryBranch string    `db:"repository_branch" json:"repository_branch"`
	Readme           string    `db:"readme" json:"readme"`
	DocumentationURL string    `db:"documentation_url" json:"documentation_url"`
	License          string    `db:"license" json:"license"`
	IsDeprecated     bool      `db:"is_deprecated" json:"is_deprecated"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// Joined from contributors on read paths.
	ContributorName string `db:"contributor_name" json:"-"`
}

// FullName returns the dotted "contributor.name" identity.
func (p *Policy) FullName() string {
	return p.ContributorName + "." + p.Name
}

type PolicyVersion struct {
	ID               int64     `db:"id" json:"id"`
	PolicyID         int64     `db:"policy_id" json:"policy_id"`
	Version          string    `db:"version" json:"version"`
	GitCommit        string    `db:"git_commit" json:"git_commit"`
	GitTag           string    `db:"git_tag" json:"git_tag"`
	Changelog        string    `db:"changelog" json:"changelog"`
	ArchiveURL       string    `db:"archive_url" json:"archive_url"`
	ArchiveSize      int64     `db:"archive_size" json:"archive_size"`
	Checksum         string    `db:"checksum" json:"checksum"`
	Dependencies     string    `db:"dependencies" json:"dependencies"`
	SupportedSystems string    `db:"supported_systems" json:"supported_systems"`
	SELinuxVersion   string    `db:"selinux_version" json:"selinux_version"`
	IsLatest         bool      `db:"is_latest" json:"is_latest"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type PolicyFile struct {
	ID        int64     `db:"id" json:"id"`
	VersionID int64     `db:"version_id" json:"version_id"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  FileType  `db:"file_type" json:"file_type"`
	Content   string    `db:"content" json:"content"`
	Size      int64     `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DownloadLog struct {
	ID        int64     `db:"id" json:"id"`
	PolicyID  int64     `db:"policy_id" json:"policy_id"`
	VersionID int64     `db:"version_id" json:"version_id"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Vote struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PolicyID  int64     `db:"policy_id" json:"policy_id"`
	Value     int       `db:"value" json:"value"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Rating struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PolicyID  int64     `db:"policy_id" json:"policy_id"`
	Score     int       `db:"score" json:"score"`
	Review    string    `db:"review" json:"review"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined on read paths.
	Username     string `db:"username" json:"user"`
	HelpfulCount int64  `db:"helpful_count" json:"helpful_count"`
}

type RatingHelpfulness struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	RatingID  int64     `db:"rating_id" json:"rating_id"`
	IsHelpful bool      `db:"is_helpful" json:"is_helpful"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
