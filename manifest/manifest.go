/*
NAME
  manifest.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"os"
	"path/filepath"

	"github.com/vcrfx/vcr/value"
	"github.com/vcrfx/vcr/vcrerr"
	"gopkg.in/yaml.v3"
)

// Load reads, parses, substitutes, decodes and validates the manifest at
// path, applying the given CLI overrides, and returns the fully Resolved
// document ready for scene evaluation (§4.4, the nine-step manifest
// pipeline).
func Load(path string, overrides []string) (*Resolved, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, vcrerr.Wrap(vcrerr.IO, path, err)
	}
	return load(string(text), filepath.Dir(path), overrides)
}

// LoadText parses a manifest already held in memory, rooted at dir for
// path-safety checks. Used by tests and by callers that already have the
// manifest text (e.g. piped input).
func LoadText(text, dir string, overrides ...string) (*Resolved, error) {
	return load(text, dir, overrides)
}

func load(text, dir string, overrides []string) (*Resolved, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, vcrerr.Wrap(vcrerr.Validation, "manifest", err)
	}

	defs, err := parseParamDefs(doc["params"])
	if err != nil {
		return nil, err
	}
	resolved := resolveParams(defs)
	resolved, applied, err := applyOverrides(defs, resolved, overrides)
	if err != nil {
		return nil, err
	}

	numeric := numericView(resolved)
	doc["params"] = numeric

	substituted, err := substituteDoc(doc, resolved)
	if err != nil {
		return nil, err
	}
	substitutedMap, ok := substituted.(map[string]interface{})
	if !ok {
		return nil, vcrerr.New(vcrerr.Validation, "manifest", "top-level document must be a mapping")
	}

	env, seed, mods, groups, layers, err := decodeTop(substitutedMap)
	if err != nil {
		return nil, err
	}

	if err := validate(env, groups, layers, dir); err != nil {
		return nil, err
	}
	stableSort(layers)

	hash := canonicalHash(text, resolved, applied)

	return &Resolved{
		Environment: env,
		Seed:        seed,
		Params:      resolved,
		Overrides:   applied,
		ParamDefs:   defs,
		Modulators:  mods,
		Layers:      layers,
		Hash:        hash,
		Dir:         dir,
	}, nil
}

// paramValue is a small convenience accessor used by downstream packages
// that only need a single resolved parameter's numeric value.
func paramValue(r *Resolved, name string) (value.Value, bool) {
	v, ok := r.Params[name]
	return v, ok
}
