package worker

// RepoType is the type of repository the download was served from.
type RepoType int

const (
	RepoTypeUnspecified RepoType = 0
	RepoTypeLocal       RepoType = 1
	RepoTypeRemote      RepoType = 2
	RepoTypeFederated   RepoType = 3
	RepoTypeUnknown     RepoType = -1
)

// ActionStatus tells the platform how to continue after the worker returns.
type ActionStatus int

const (
	ActionStatusUnspecified ActionStatus = 0
	ActionStatusProceed     ActionStatus = 1
	ActionStatusStop        ActionStatus = 2
	ActionStatusWarn        ActionStatus = 3
	ActionStatusUnknown     ActionStatus = -1
)

// String returns the platform name of an ActionStatus.
func (s ActionStatus) String() string {
	switch s {
	case ActionStatusUnspecified:
		return "UNSPECIFIED"
	case ActionStatusProceed:
		return "PROCEED"
	case ActionStatusStop:
		return "STOP"
	case ActionStatusWarn:
		return "WARN"
	default:
		return "UNRECOGNIZED"
	}
}

// AfterDownloadErrorRequest is the event the platform sends when a download fails.
type AfterDownloadErrorRequest struct {
	Metadata       *DownloadMetadata `json:"metadata"`
	UserContext    *UserContext      `json:"userContext"`
	RequestHeaders map[string]Header `json:"requestHeaders"`
}

// AfterDownloadErrorResponse is returned to the platform.
type AfterDownloadErrorResponse struct {
	Message         string       `json:"message"`
	ExecutionStatus ActionStatus `json:"executionStatus,omitempty"`
	Size            int64        `json:"size,omitempty"`
	ResponseMessage string       `json:"responseMessage,omitempty"`
	StatusCode      int          `json:"statusCode,omitempty"`
}

// DownloadMetadata describes the failed download.
type DownloadMetadata struct {
	RepoPath                  *RepoPath `json:"repoPath"`
	OriginalRepoPath          *RepoPath `json:"originalRepoPath"` // set when a virtual repository is involved
	Name                      string    `json:"name"`
	HeadOnly                  bool      `json:"headOnly"`
	Checksum                  bool      `json:"checksum"`
	Recursive                 bool      `json:"recursive"`
	ModificationTime          int64     `json:"modificationTime"`
	DirectoryRequest          bool      `json:"directoryRequest"`
	Metadata                  bool      `json:"metadata"`
	LastModified              int64     `json:"lastModified"`
	IfModifiedSince           int64     `json:"ifModifiedSince"`
	ServletContextURL         string    `json:"servletContextUrl"`
	URI                       string    `json:"uri"`
	ClientAddress             string    `json:"clientAddress"`
	ZipResourcePath           string    `json:"zipResourcePath"`
	ZipResourceRequest        bool      `json:"zipResourceRequest"`
	ReplaceHeadRequestWithGet bool      `json:"replaceHeadRequestWithGet"`
	RepoType                  RepoType  `json:"repoType"`
}

// RepoPath identifies an artifact by repository key and path.
// Path is nil when the platform omits it or sends null, and empty for the repository root.
type RepoPath struct {
	Key      string  `json:"key"`
	Path     *string `json:"path"`
	ID       string  `json:"id"` // key:path
	IsRoot   bool    `json:"isRoot"`
	IsFolder bool    `json:"isFolder"`
}

// Header carries the values of one request header of the failed download.
type Header struct {
	Value []string `json:"value"`
}

// UserContext identifies who triggered the download.
type UserContext struct {
	ID      string `json:"id"` // username or token subject
	IsToken bool   `json:"isToken"`
	Realm   string `json:"realm"`
}

// Proceed is the only response the worker ever returns.
func Proceed() AfterDownloadErrorResponse {
	return AfterDownloadErrorResponse{
		Message:         "proceed",
		ExecutionStatus: ActionStatusProceed,
	}
}

// artifact returns the repository key and path of the failed download.
func (r *AfterDownloadErrorRequest) artifact() (repo, path string, ok bool) {
	if r == nil || r.Metadata == nil || r.Metadata.RepoPath == nil {
		return "", "", false
	}
	rp := r.Metadata.RepoPath
	if rp.Key == "" || rp.Path == nil {
		return "", "", false
	}
	return rp.Key, *rp.Path, true
}

func (r *AfterDownloadErrorRequest) userID() string {
	if r == nil || r.UserContext == nil {
		return ""
	}
	return r.UserContext.ID
}
