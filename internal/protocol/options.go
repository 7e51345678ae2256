package protocol

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Options are the agent settings edited on the config panel.
type Options struct {
	PreferSDCard    bool         `json:"preferSDCard"`
	PreferKepub     bool         `json:"preferKepub"`
	EnableDebug     bool         `json:"enableDebug"`
	ExcludeFormats  []string     `json:"excludeFormats"`
	Thumbnail       Thumbnail    `json:"thumbnail"`
	DirectConn      []Connection `json:"directConn"`
	DirectConnIndex int          `json:"directConnIndex"`

	// Extra keeps option keys kuctl does not edit so a submit writes them
	// back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

var knownOptionKeys = []string{
	"preferSDCard",
	"preferKepub",
	"enableDebug",
	"excludeFormats",
	"thumbnail",
	"directConn",
	"directConnIndex",
}

type plainOptions Options

func (o *Options) UnmarshalJSON(data []byte) error {
	var known plainOptions
	if err := sonic.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownOptionKeys {
		delete(all, k)
	}

	*o = Options(known)
	o.Extra = nil
	if len(all) > 0 {
		o.Extra = all
	}
	return nil
}

func (o Options) MarshalJSON() ([]byte, error) {
	known, err := sonic.Marshal(plainOptions(o))
	if err != nil || len(o.Extra) == 0 {
		return known, err
	}

	merged := make(map[string]json.RawMessage, len(knownOptionKeys)+len(o.Extra))
	if err := sonic.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range o.Extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return sonic.Marshal(merged)
}

// Clone returns a copy that shares no slices or maps with o.
func (o Options) Clone() Options {
	c := o
	if o.ExcludeFormats != nil {
		c.ExcludeFormats = make([]string, len(o.ExcludeFormats))
		copy(c.ExcludeFormats, o.ExcludeFormats)
	}
	if o.DirectConn != nil {
		c.DirectConn = make([]Connection, len(o.DirectConn))
		copy(c.DirectConn, o.DirectConn)
	}
	if o.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return c
}
