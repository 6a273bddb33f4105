// Package media decides where a diary entry's audio or image comes from.
package media

// Kind is the provenance of a Ref.
type Kind int

const (
	Missing Kind = iota
	Local
	Remote
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "missing"
	}
}

// Ref is a media reference: a local path, a remote URL, or nothing.
// Exactly one of Path and URL is set for Local and Remote respectively.
type Ref struct {
	Kind Kind
	Path string
	URL  string
}

func LocalRef(path string) Ref { return Ref{Kind: Local, Path: path} }
func RemoteRef(url string) Ref { return Ref{Kind: Remote, URL: url} }

// Location returns the path or URL, or "" when missing.
func (r Ref) Location() string {
	switch r.Kind {
	case Local:
		return r.Path
	case Remote:
		return r.URL
	default:
		return ""
	}
}

func (r Ref) Available() bool { return r.Kind != Missing }

// Resolve prefers localPath when exists reports it present, then remoteURL,
// and otherwise reports Missing. It has no side effects beyond calling exists.
func Resolve(localPath, remoteURL string, exists func(string) bool) Ref {
	if localPath != "" && exists != nil && exists(localPath) {
		return LocalRef(localPath)
	}
	if remoteURL != "" {
		return RemoteRef(remoteURL)
	}
	return Ref{Kind: Missing}
}
