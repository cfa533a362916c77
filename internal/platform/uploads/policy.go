package uploads

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const policyEnv = "UPLOAD_POLICY_YAML"

//go:embed policy.yaml
var policyFS embed.FS

type Kind string

const (
	KindThumbnail Kind = "thumbnail"
	KindVideo     Kind = "video"
)

type Rule struct {
	KeyPrefix  string   `yaml:"key_prefix"`
	MaxBytes   int64    `yaml:"max_bytes"`
	MimeTypes  []string `yaml:"mime_types"`
	Extensions []string `yaml:"extensions"`
}

type Policy struct {
	Version int           `yaml:"version"`
	Rules   map[Kind]Rule `yaml:"rules"`
}

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

var (
	ErrTooLarge = errors.New("file exceeds the upload size limit")
	ErrEmpty    = errors.New("empty upload")
)

// InvalidTypeError reports a file whose content is not in the accepted list.
type InvalidTypeError struct {
	Detected string
	Accepted []string
}

func (e *InvalidTypeError) Error() string {
	return "Invalid file type. Accepted types are: " + strings.Join(e.Accepted, ", ")
}

// LoadPolicy reads the file named by UPLOAD_POLICY_YAML, falling back to the
// embedded policy when unset or invalid.
func LoadPolicy(log *logger.Logger) *Policy {
	if path := strings.TrimSpace(os.Getenv(policyEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			p, perr := ParsePolicy(data)
			if perr == nil {
				return p
			}
			err = perr
		}
		if log != nil {
			log.Warn("upload policy override failed; using embedded policy", "path", path, "error", err)
		}
	}
	data, err := policyFS.ReadFile("policy.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded upload policy missing: %v", err))
	}
	p, err := ParsePolicy(data)
	if err != nil {
		panic(fmt.Sprintf("embedded upload policy invalid: %v", err))
	}
	return p
}

func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	for _, kind := range []Kind{KindThumbnail, KindVideo} {
		rule, ok := p.Rules[kind]
		if !ok {
			return nil, fmt.Errorf("upload policy: missing rule %q", kind)
		}
		if rule.MaxBytes <= 0 {
			return nil, fmt.Errorf("upload policy: rule %q needs max_bytes > 0", kind)
		}
		if len(rule.MimeTypes) == 0 && len(rule.Extensions) == 0 {
			return nil, fmt.Errorf("upload policy: rule %q accepts nothing", kind)
		}
		for i, ext := range rule.Extensions {
			rule.Extensions[i] = strings.ToLower(ext)
		}
		p.Rules[kind] = rule
	}
	return &p, nil
}

// Inspected is a validated upload ready to be streamed to storage.
type Inspected struct {
	Kind        Kind
	ContentType string
	Extension   string
	Size        int64
	Body        io.Reader
}

// Inspect sniffs the head of r and checks it against the rule for kind.
// The returned Body replays the sniffed bytes.
func (p *Policy) Inspect(kind Kind, filename string, size int64, r io.Reader) (*Inspected, error) {
	rule, ok := p.Rules[kind]
	if !ok {
		return nil, fmt.Errorf("no upload rule for %q", kind)
	}
	if size == 0 {
		return nil, ErrEmpty
	}
	if size > rule.MaxBytes {
		return nil, ErrTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload head: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrEmpty
	}

	detected := mimetype.Detect(head)
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, accepted := rule.match(detected, ext)
	if !accepted {
		return nil, &InvalidTypeError{Detected: detected.String(), Accepted: rule.accepted()}
	}
	if detected.Extension() != "" && contentType == detected.String() {
		ext = detected.Extension()
	}
	return &Inspected{
		Kind:        kind,
		ContentType: contentType,
		Extension:   ext,
		Size:        size,
		Body:        io.MultiReader(bytes.NewReader(head), r),
	}, nil
}

func (r Rule) match(detected *mimetype.MIME, ext string) (string, bool) {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range r.MimeTypes {
			if m.Is(allowed) {
				return allowed, true
			}
		}
	}
	for _, allowed := range r.Extensions {
		if ext == allowed {
			if ct := mimetype.Lookup(extensionMIME(ext)); ct != nil {
				return ct.String(), true
			}
			return "application/octet-stream", true
		}
	}
	return "", false
}

func (r Rule) accepted() []string {
	out := append([]string{}, r.MimeTypes...)
	return append(out, r.Extensions...)
}

func extensionMIME(ext string) string {
	switch ext {
	case ".mp4":
		return "video/mp4"
	default:
		return ""
	}
}

// Key builds the object key for an upload: <prefix>/<name><ext>.
func (p *Policy) Key(kind Kind, name, ext string) string {
	prefix := strings.Trim(p.Rules[kind].KeyPrefix, "/")
	if prefix == "" {
		prefix = "coursehub/" + string(kind)
	}
	return prefix + "/" + name + ext
}
