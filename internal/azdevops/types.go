package azdevops

// PullRequest is the subset of the pull request resource the reviewer uses.
type PullRequest struct {
	PullRequestID int    `json:"pullRequestId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	SourceRefName string `json:"sourceRefName"`
	TargetRefName string `json:"targetRefName"`
	CreatedBy     struct {
		DisplayName string `json:"displayName"`
		UniqueName  string `json:"uniqueName"`
	} `json:"createdBy"`
	Repository struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Project struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
	} `json:"repository"`
	URL string `json:"url"`
}

// Iteration is one push to the pull request source branch.
type Iteration struct {
	ID              int `json:"id"`
	SourceRefCommit struct {
		CommitID string `json:"commitId"`
	} `json:"sourceRefCommit"`
	TargetRefCommit struct {
		CommitID string `json:"commitId"`
	} `json:"targetRefCommit"`
}

// ItemChange is one changed file in an iteration.
type ItemChange struct {
	ChangeType string `json:"changeType"`
	Item       struct {
		Path          string `json:"path"`
		IsFolder      bool   `json:"isFolder"`
		GitObjectType string `json:"gitObjectType"`
		OriginalPath  string `json:"originalPath,omitempty"`
		CommitID      string `json:"commitId,omitempty"`
		ObjectID      string `json:"objectId,omitempty"`
	} `json:"item"`
}

// listResponse is the envelope Azure DevOps wraps around collection results.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// changesResponse is the envelope for iteration changes.
type changesResponse struct {
	ChangeEntries []ItemChange `json:"changeEntries"`
}

// Comment is a single comment inside a thread.
type Comment struct {
	Content         string `json:"content" validate:"required"`
	ParentCommentID int    `json:"parentCommentId"`
	CommentType     string `json:"commentType"`
}

// ThreadRequest is the payload for creating or updating a comment thread.
type ThreadRequest struct {
	Comments []Comment `json:"comments" validate:"required,min=1,dive"`
	Status   string    `json:"status,omitempty"`
}

// Thread is the created thread resource.
type Thread struct {
	ID       int       `json:"id"`
	Status   string    `json:"status"`
	Comments []Comment `json:"comments"`
}
