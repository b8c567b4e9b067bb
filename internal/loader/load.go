package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/roach88/enskit/internal/ensemble"
)

// Load reads a snapshot from path: a .yaml/.yml file, a .cue file, or a
// directory holding a CUE package.
func Load(path string) (*ensemble.Set, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("snapshot not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing snapshot: %v", err), Err: err}
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: err.Error(), Err: err}
		}
		defer f.Close()
		return LoadYAML(f, path)
	case ".cue":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: err.Error(), Err: err}
		}
		return LoadCUE(data, path)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupportedFormat, File: path, Message: fmt.Sprintf("unsupported snapshot extension %q", ext)}
	}
}

// LoadYAML decodes a YAML snapshot. Unknown fields are rejected. name is
// used in error messages only.
func LoadYAML(r io.Reader, name string) (*ensemble.Set, error) {
	var doc Snapshot
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeParseFailed, File: name, Message: err.Error(), Err: err}
	}
	return buildWithFile(doc, name)
}

// LoadCUE compiles a single CUE file.
func LoadCUE(data []byte, filename string) (*ensemble.Set, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "building CUE value", filename, err)
	}
	return decodeCUE(value, filename)
}

// LoadCUEDir loads the CUE package in dir.
func LoadCUEDir(dir string) (*ensemble.Set, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, File: dir, Message: err.Error(), Err: err}
	}
	if len(matches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, File: dir, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, File: dir, Message: err.Error(), Err: err}
	}
	instances := load.Instances([]string{"."}, &load.Config{Dir: abs})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, File: dir, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, cueLoadError(ErrCodeLoadFailed, "loading CUE files", dir, inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "building CUE value", dir, err)
	}
	return decodeCUE(value, dir)
}

// decodeCUE exports the concrete value as JSON and decodes it into a
// Snapshot. Incomplete values (unresolved references, open constraints)
// fail here.
func decodeCUE(value cue.Value, name string) (*ensemble.Set, error) {
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "snapshot is not concrete", name, err)
	}
	data, err := value.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "exporting CUE value", name, err)
	}

	var doc Snapshot
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, File: name, Message: err.Error(), Err: err}
	}
	return buildWithFile(doc, name)
}

func buildWithFile(doc Snapshot, name string) (*ensemble.Set, error) {
	set, err := Build(doc)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.File == "" {
			le.File = name
		}
		return nil, err
	}
	return set, nil
}

// cueLoadError converts a CUE error to a LoadError with position info.
func cueLoadError(code, context, name string, err error) *LoadError {
	le := &LoadError{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", context, err),
		File:    name,
		Err:     err,
	}
	for _, pos := range cueerrors.Positions(err) {
		if pos.IsValid() {
			le.File = pos.Filename()
			le.Line = pos.Line()
			break
		}
	}
	return le
}
