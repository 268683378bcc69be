// Package descriptor loads request descriptions from YAML files.
//
// A file looks like:
//
//	url: https://api.example.com/v1/items
//	method: GET
//	timeout: 10s
//	cache: reload
//	params:
//	  page: 2
//	  filter: null
//	headers:
//	  - key: X-Client
//	    value: courier
//	auth:
//	  bearer: secret-token
//	signature:
//	  md5: shared-secret
//	schema: item.schema.json
package descriptor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/courier/packages/http"
)

// Descriptor is the YAML form of an http.Request
type Descriptor struct {
	URL       string         `yaml:"url"`
	Method    string         `yaml:"method,omitempty"`
	Timeout   string         `yaml:"timeout,omitempty"`
	Cache     string         `yaml:"cache,omitempty"`
	Locale    string         `yaml:"locale,omitempty"`
	Params    map[string]any `yaml:"params,omitempty"`
	Body      any            `yaml:"body,omitempty"`
	Headers   []Header       `yaml:"headers,omitempty"`
	Auth      *Auth          `yaml:"auth,omitempty"`
	Signature *Signature     `yaml:"signature,omitempty"`

	// Schema is a JSON schema file, relative to the descriptor file
	Schema string `yaml:"schema,omitempty"`

	dir string
}

type Header struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Auth holds exactly one authorization scheme
type Auth struct {
	Bearer *string     `yaml:"bearer,omitempty"`
	Basic  *Credential `yaml:"basic,omitempty"`
	APIKey *KeyValue   `yaml:"apiKey,omitempty"`
}

type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type KeyValue struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Signature holds exactly one signature kind
type Signature struct {
	MD5    *string `yaml:"md5,omitempty"`
	SHA256 *string `yaml:"sha256,omitempty"`
	Plain  *string `yaml:"plain,omitempty"`
}

// LoadFile reads and parses a descriptor file
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read request file")
	}

	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	d.dir = filepath.Dir(path)
	return d, nil
}

// Parse decodes a descriptor document
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.URL == "" {
		return nil, errors.New("url is required")
	}
	return &d, nil
}

// Request converts the descriptor into a request. defaults are applied
// before the descriptor's own fields.
func (d *Descriptor) Request(defaults ...http.RequestOption) (*http.Request, error) {
	opts := append([]http.RequestOption{}, defaults...)

	if d.Method != "" {
		m, ok := http.ParseMethod(d.Method)
		if !ok {
			return nil, errors.Errorf("unknown method %q", d.Method)
		}
		opts = append(opts, http.WithMethod(m))
	}
	if d.Timeout != "" {
		timeout, err := time.ParseDuration(d.Timeout)
		if err != nil {
			return nil, errors.Wrap(err, "timeout")
		}
		opts = append(opts, http.WithTimeout(timeout))
	}
	if d.Cache != "" {
		p, ok := http.ParseCachePolicy(d.Cache)
		if !ok {
			return nil, errors.Errorf("unknown cache policy %q", d.Cache)
		}
		opts = append(opts, http.WithCachePolicy(p))
	}
	if d.Locale != "" {
		opts = append(opts, http.WithLocale(d.Locale))
	}
	if d.Params != nil {
		opts = append(opts, http.WithParams(d.Params))
	}
	if d.Body != nil {
		opts = append(opts, http.WithBody(d.Body))
	}
	for _, h := range d.Headers {
		opts = append(opts, http.WithHeader(h.Key, h.Value))
	}

	if d.Auth != nil {
		auth, err := d.Auth.authorization()
		if err != nil {
			return nil, err
		}
		opts = append(opts, http.WithAuthorization(auth))
	}
	if d.Signature != nil {
		sig, err := d.Signature.signature()
		if err != nil {
			return nil, err
		}
		opts = append(opts, http.WithSignature(sig))
	}

	return http.NewRequest(d.URL, opts...), nil
}

// SchemaPath returns the schema file resolved against the descriptor's
// directory, or "" when none is set.
func (d *Descriptor) SchemaPath() string {
	if d.Schema == "" || filepath.IsAbs(d.Schema) {
		return d.Schema
	}
	return filepath.Join(d.dir, d.Schema)
}

func (a *Auth) authorization() (http.Authorization, error) {
	var found []http.Authorization
	if a.Bearer != nil {
		found = append(found, http.Bearer(*a.Bearer))
	}
	if a.Basic != nil {
		found = append(found, http.BasicAuth{Username: a.Basic.Username, Password: a.Basic.Password})
	}
	if a.APIKey != nil {
		found = append(found, http.APIKey{Key: a.APIKey.Key, Value: a.APIKey.Value})
	}
	if len(found) != 1 {
		return nil, errors.Errorf("auth must name exactly one scheme, got %d", len(found))
	}
	return found[0], nil
}

func (s *Signature) signature() (http.Signature, error) {
	var found []http.Signature
	if s.MD5 != nil {
		found = append(found, http.MD5(*s.MD5))
	}
	if s.SHA256 != nil {
		found = append(found, http.DigestSignature{Secret: *s.SHA256, Hash: http.SHA256Hex})
	}
	if s.Plain != nil {
		found = append(found, http.PlainSignature{Value: *s.Plain})
	}
	if len(found) != 1 {
		return nil, errors.Errorf("signature must name exactly one kind, got %d", len(found))
	}
	return found[0], nil
}
