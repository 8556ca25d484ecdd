package manifest

import "github.com/hashicorp/hcl/v2"

// stubBlock is the HCL shape of a `stub "Key" { ... }` block.
type stubBlock struct {
	Key      string         `hcl:"key,label"`
	Domain   string         `hcl:"domain,optional"`
	Mode     string         `hcl:"mode,optional"`
	Requires []string       `hcl:"requires,optional"`
	Content  hcl.Expression `hcl:"content"`
}

// templateBlock is the HCL shape of a `template "Key" { ... }` block.
type templateBlock struct {
	Key      string         `hcl:"key,label"`
	Domain   string         `hcl:"domain,optional"`
	Requires []string       `hcl:"requires"`
	Content  hcl.Expression `hcl:"content"`
}

// manifestFile is the top-level structure of a single manifest file.
type manifestFile struct {
	Stubs     []*stubBlock     `hcl:"stub,block"`
	Templates []*templateBlock `hcl:"template,block"`
}
