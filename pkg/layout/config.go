package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/text"
)

// Default geometry shared by both pipelines.
const (
	DefaultHGap         = 25.0
	DefaultVGap         = 20.0
	DefaultConnectorGap = 6.0
	DefaultXInit        = 10.0
	DefaultYInit        = 10.0
	DefaultSentenceGap  = 100.0
	DefaultWidthScale   = 1.0
)

// Font families used by the default configurations.
const (
	FamilyToken = "Times New Roman"
	FamilyEdge  = "Arial"
)

// Fonts groups the fonts used for each kind of label.
type Fonts struct {
	Token text.Font `toml:"token" json:"token"`
	Tag   text.Font `toml:"tag" json:"tag"`
	Index text.Font `toml:"index" json:"index"`
	Edge  text.Font `toml:"edge" json:"edge"`
}

// Config holds every layout constant. The zero value is not usable; start
// from [DefaultDependency] or [DefaultConstituency].
type Config struct {
	HGap         float64 `toml:"h_gap" json:"h_gap"`                 // space between adjacent tokens
	VGap         float64 `toml:"v_gap" json:"v_gap"`                 // height of one arc tier or tree level
	ConnectorGap float64 `toml:"connector_gap" json:"connector_gap"` // width reserved per connector on a token
	XInit        float64 `toml:"x_init" json:"x_init"`
	YInit        float64 `toml:"y_init" json:"y_init"`
	SentenceGap  float64 `toml:"sentence_gap" json:"sentence_gap"` // vertical advance after each sentence
	WidthScale   float64 `toml:"width_scale" json:"width_scale"`   // fraction of measured width the cursor advances by

	Tags          bool `toml:"tags" json:"tags"`                     // draw tag boxes (under tokens, or above constituency words)
	Smooth        bool `toml:"smooth" json:"smooth"`                 // draw smoothed edges
	Indices       bool `toml:"indices" json:"indices"`               // dependency: draw token index labels
	KeepIndices   bool `toml:"keep_indices" json:"keep_indices"`     // constituency: keep numeric co-indices on tags
	LevelSiblings bool `toml:"level_siblings" json:"level_siblings"` // constituency: siblings share the tallest height

	Fonts Fonts `toml:"fonts" json:"fonts"`
}

func common() Config {
	return Config{
		HGap:         DefaultHGap,
		VGap:         DefaultVGap,
		ConnectorGap: DefaultConnectorGap,
		XInit:        DefaultXInit,
		YInit:        DefaultYInit,
		SentenceGap:  DefaultSentenceGap,
		WidthScale:   DefaultWidthScale,
	}
}

// DefaultDependency returns the configuration for dependency trees.
func DefaultDependency() Config {
	c := common()
	c.Fonts = Fonts{
		Token: text.Font{Family: FamilyToken, Size: 13, Style: text.StylePlain},
		Tag:   text.Font{Family: FamilyToken, Size: 12, Style: text.StylePlain},
		Index: text.Font{Family: FamilyToken, Size: 10, Style: text.StylePlain},
		Edge:  text.Font{Family: FamilyEdge, Size: 10, Style: text.StylePlain},
	}
	return c
}

// DefaultConstituency returns the configuration for bracketed trees. Tag
// boxes are on, since terminals hang from them.
func DefaultConstituency() Config {
	c := common()
	c.Fonts = Fonts{
		Token: text.Font{Family: FamilyToken, Size: 14, Style: text.StylePlain},
		Tag:   text.Font{Family: FamilyToken, Size: 13, Style: text.StylePlain},
		Index: text.Font{Family: FamilyToken, Size: 11, Style: text.StylePlain},
		Edge:  text.Font{Family: FamilyEdge, Size: 10, Style: text.StylePlain},
	}
	c.Tags = true
	return c
}

// Validate returns a ConfigError for the first invalid value.
func (c Config) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"h_gap", c.HGap},
		{"v_gap", c.VGap},
		{"width_scale", c.WidthScale},
	} {
		if err := errors.ValidatePositive(v.name, v.val); err != nil {
			return err
		}
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"connector_gap", c.ConnectorGap},
		{"x_init", c.XInit},
		{"y_init", c.YInit},
		{"sentence_gap", c.SentenceGap},
	} {
		if err := errors.ValidateNonNegative(v.name, v.val); err != nil {
			return err
		}
	}
	for name, f := range map[string]text.Font{
		"fonts.token": c.Fonts.Token,
		"fonts.tag":   c.Fonts.Tag,
		"fonts.index": c.Fonts.Index,
		"fonts.edge":  c.Fonts.Edge,
	} {
		if f.Size <= 0 {
			return errors.ConfigError("%s.size must be positive, got %d", name, f.Size)
		}
		if f.Family == "" {
			return errors.ConfigError("%s.family is required", name)
		}
	}
	return nil
}

// LoadConfig decodes the TOML file at path on top of base, so keys absent
// from the file keep their base values. The result is validated.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return DecodeConfig(string(data), base)
}

// DecodeConfig decodes TOML source on top of base and validates the result.
func DecodeConfig(src string, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(src, &cfg)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, errors.ConfigError("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}
