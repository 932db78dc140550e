package api

import (
	"time"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

// List and detail endpoints expose different shapes of the same entities,
// so each has its own output struct instead of one entity type with
// optional fields.

type versionSummaryView struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

type policyListView struct {
	ID            int64               `json:"id"`
	Contributor   string              `json:"contributor"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	LatestVersion *versionSummaryView `json:"latest_version"`
	Tags          []string            `json:"tags"`
	DownloadCount int64               `json:"download_count"`
	IsDeprecated  bool                `json:"is_deprecated"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type contributorView struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	IsVerified  bool      `json:"is_verified"`
	IsPersonal  bool      `json:"is_personal"`
	Owners      []string  `json:"owners"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type policyFileView struct {
	FilePath  string          `json:"file_path"`
	FileType  models.FileType `json:"file_type"`
	Content   string          `json:"content"`
	Size      int64           `json:"size"`
	CreatedAt time.Time       `json:"created_at"`
}

type versionDetailView struct {
	ID               int64            `json:"id"`
	Policy           string           `json:"policy"`
	Contributor      string           `json:"contributor"`
	Version          string           `json:"version"`
	GitCommit        string           `json:"git_commit"`
	GitTag           string           `json:"git_tag"`
	Changelog        string           `json:"changelog"`
	Checksum         string           `json:"checksum"`
	Dependencies     string           `json:"dependencies"`
	SupportedSystems string           `json:"supported_systems"`
	SELinuxVersion   string           `json:"selinux_version"`
	IsLatest         bool             `json:"is_latest"`
	Files            []policyFileView `json:"files"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type policyDetailView struct {
	ID            int64                `json:"id"`
	Contributor   contributorView      `json:"contributor"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	LatestVersion *versionDetailView   `json:"latest_version"`
	Versions      []versionSummaryView `json:"versions"`
	Tags          []string             `json:"tags"`
	DownloadCount int64                `json:"download_count"`
	AverageRating *float64             `json:"average_rating"`
	VoteScore     int64                `json:"vote_score"`
	IsDeprecated  bool                 `json:"is_deprecated"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type searchResultView struct {
	ID            int64     `json:"id"`
	Contributor   string    `json:"contributor"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	LatestVersion *string   `json:"latest_version"`
	Tags          []string  `json:"tags"`
	DownloadCount int64     `json:"download_count"`
	IsDeprecated  bool      `json:"is_deprecated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ContentType   string    `json:"content_type"`
	Relevance     float64   `json:"relevance"`
}

type userView struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"date_joined"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func newContributorView(c *models.Contributor, owners []string) contributorView {
	if owners == nil {
		owners = []string{}
	}
	return contributorView{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Company:     c.Company,
		Description: c.Description,
		Email:       c.Email,
		AvatarURL:   c.AvatarURL,
		IsVerified:  c.IsVerified,
		IsPersonal:  c.IsPersonal,
		Owners:      owners,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newVersionDetailView(policy, contributor string, v *models.PolicyVersion, files []models.PolicyFile) versionDetailView {
	fvs := make([]policyFileView, 0, len(files))
	for _, f := range files {
		fvs = append(fvs, policyFileView{
			FilePath:  f.FilePath,
			FileType:  f.FileType,
			Content:   f.Content,
			Size:      f.Size,
			CreatedAt: f.CreatedAt,
		})
	}
	return versionDetailView{
		ID:               v.ID,
		Policy:           policy,
		Contributor:      contributor,
		Version:          v.Version,
		GitCommit:        v.GitCommit,
		GitTag:           v.GitTag,
		Changelog:        v.Changelog,
		Checksum:         v.Checksum,
		Dependencies:     v.Dependencies,
		SupportedSystems: v.SupportedSystems,
		SELinuxVersion:   v.SELinuxVersion,
		IsLatest:         v.IsLatest,
		Files:            fvs,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// newPolicyListView assembles a list entry from a catalog row plus its tags
// and latest version.
func newPolicyListView(row store.PolicyRow, tags []string, latest *models.PolicyVersion) policyListView {
	if tags == nil {
		tags = []string{}
	}
	view := policyListView{
		ID:            row.ID,
		Contributor:   row.Contributor,
		Name:          row.Name,
		Description:   row.Description,
		Tags:          tags,
		DownloadCount: row.DownloadCount,
		IsDeprecated:  row.IsDeprecated,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if latest != nil {
		view.LatestVersion = &versionSummaryView{Version: latest.Version, CreatedAt: latest.CreatedAt}
	}
	return view
}

func newSearchResultView(row store.PolicyRow, tags []string, latest *models.PolicyVersion) searchResultView {
	if tags == nil {
		tags = []string{}
	}
	view := searchResultView{
		ID:            row.ID,
		Contributor:   row.Contributor,
		Name:          row.Name,
		Description:   row.Description,
		Tags:          tags,
		DownloadCount: row.DownloadCount,
		IsDeprecated:  row.IsDeprecated,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		ContentType:   "policy",
		Relevance:     0,
	}
	if latest != nil {
		view.LatestVersion = &latest.Version
	}
	return view
}
