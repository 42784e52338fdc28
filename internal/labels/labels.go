// Package labels loads the fixed label strings shown by the chart and panel.
package labels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

// DefaultLang is the built-in label set used when none is configured.
const DefaultLang = "zh-TW"

// ErrResourceNotFound reports a label file or built-in set that does not exist.
var ErrResourceNotFound = errors.New("labels: resource not found")

//go:embed builtin/*.toml
var builtinFS embed.FS

// Labels holds every user-visible string of the chart and parameter panel.
type Labels struct {
	Title             string `toml:"title"`
	Panel             string `toml:"panel"`
	AcidConcentration string `toml:"acid-concentration"`
	AcidVolume        string `toml:"acid-volume"`
	BaseConcentration string `toml:"base-concentration"`
	ChartTitle        string `toml:"chart-title"`
	XAxis             string `toml:"x-axis"`
	YAxis             string `toml:"y-axis"`
	Curve             string `toml:"curve"`
	Neutral           string `toml:"neutral"`
	Summary           string `toml:"summary"`
	InitialPH         string `toml:"initial-ph"`
	EquivalenceVolume string `toml:"equivalence-volume"`
	EquivalencePH     string `toml:"equivalence-ph"`
	FinalPH           string `toml:"final-ph"`
}

func (l *Labels) fields() []struct {
	key string
	ptr *string
} {
	return []struct {
		key string
		ptr *string
	}{
		{"title", &l.Title},
		{"panel", &l.Panel},
		{"acid-concentration", &l.AcidConcentration},
		{"acid-volume", &l.AcidVolume},
		{"base-concentration", &l.BaseConcentration},
		{"chart-title", &l.ChartTitle},
		{"x-axis", &l.XAxis},
		{"y-axis", &l.YAxis},
		{"curve", &l.Curve},
		{"neutral", &l.Neutral},
		{"summary", &l.Summary},
		{"initial-ph", &l.InitialPH},
		{"equivalence-volume", &l.EquivalenceVolume},
		{"equivalence-ph", &l.EquivalencePH},
		{"final-ph", &l.FinalPH},
	}
}

// normalize trims and NFC-normalizes every label and rejects empty ones.
func (l *Labels) normalize() error {
	var missing []string
	for _, f := range l.fields() {
		v := strings.TrimSpace(norm.NFC.String(*f.ptr))
		if v == "" {
			missing = append(missing, f.key)
		}
		*f.ptr = v
	}
	if len(missing) > 0 {
		return fmt.Errorf("labels: missing keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load reads a label set from a TOML file.
func Load(filePath string) (Labels, error) {
	if filePath == "" {
		return Labels{}, fmt.Errorf("labels path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return Labels{}, fmt.Errorf("%w: %s", ErrResourceNotFound, filePath)
		}
		return Labels{}, fmt.Errorf("failed to stat labels: %w", err)
	}
	var l Labels
	md, err := toml.DecodeFile(filePath, &l)
	if err != nil {
		return Labels{}, fmt.Errorf("failed to decode labels %s: %w", filePath, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Labels{}, fmt.Errorf("%s: %w", filePath, err)
	}
	if err := l.normalize(); err != nil {
		return Labels{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return l, nil
}

// Builtin returns one of the embedded label sets.
func Builtin(lang string) (Labels, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", lang+".toml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Labels{}, fmt.Errorf("%w: built-in set %q (available: %s)", ErrResourceNotFound, lang, strings.Join(Langs(), ", "))
		}
		return Labels{}, err
	}
	var l Labels
	md, err := toml.Decode(string(data), &l)
	if err != nil {
		return Labels{}, fmt.Errorf("failed to decode built-in labels %q: %w", lang, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Labels{}, err
	}
	if err := l.normalize(); err != nil {
		return Labels{}, err
	}
	return l, nil
}

// Langs lists the embedded label sets in sorted order.
func Langs() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".toml") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".toml"))
	}
	sort.Strings(langs)
	return langs
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("labels: unknown keys: %s", strings.Join(keys, ", "))
}

// Source selects a label set: a file when Path is set, otherwise the built-in Lang.
type Source struct {
	Lang string
	Path string
}

// Handle loads its label set on first use and caches the outcome.
type Handle struct {
	src    Source
	once   sync.Once
	labels Labels
	err    error
}

// NewHandle returns a Handle for src. Nothing is read until Get is called.
func NewHandle(src Source) *Handle {
	return &Handle{src: src}
}

// Get returns the labels, loading them on the first call.
func (h *Handle) Get() (Labels, error) {
	h.once.Do(func() {
		h.labels, h.err = resolve(h.src)
	})
	return h.labels, h.err
}

func resolve(src Source) (Labels, error) {
	if src.Path != "" {
		return Load(src.Path)
	}
	lang := src.Lang
	if lang == "" {
		lang = DefaultLang
	}
	return Builtin(lang)
}
