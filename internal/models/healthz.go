package models

type Healthz struct {
	CommitSHA string `json:"commit_sha,omitempty"`
	TagName   string `json:"tag_name,omitempty"`
	MultiUser bool   `json:"multi_user,omitempty"`
}
