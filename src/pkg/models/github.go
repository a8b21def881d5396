package models

// PullRequest holds the subset of PR information the tool needs.
type PullRequest struct {
	Number  int
	BaseRef string
	BaseSHA string
	HeadRef string
	HeadSHA string
}

// Comment represents a PR comment.
type Comment struct {
	ID   int64
	Body string
}
