package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// Contract method names.
const (
	MethodSet = "set"
	MethodGet = "get"
)

//go:embed artifacts/Storage.json
var storageArtifact []byte

// SchemaLoader supplies the contract artifact document the registry
// interface is parsed from.
type SchemaLoader interface {
	Load() ([]byte, error)
}

// EmbeddedSchema loads the Storage artifact compiled into the binary.
type EmbeddedSchema struct{}

// Load returns a copy of the embedded artifact.
func (EmbeddedSchema) Load() ([]byte, error) {
	return bytes.Clone(storageArtifact), nil
}

// StaticSchema is an in-memory artifact document, mostly useful in tests.
type StaticSchema []byte

// Load returns the document unchanged.
func (s StaticSchema) Load() ([]byte, error) {
	return s, nil
}

// artifact is the subset of a compiled contract artifact we read.
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABI reads the artifact from loader, extracts its abi section and checks
// it exposes set(string) and get() returns (string).
func LoadABI(loader SchemaLoader) (abi.ABI, error) {
	doc, err := loader.Load()
	if err != nil {
		return abi.ABI{}, errors.NewInterfaceError("failed to load contract artifact", err)
	}

	var a artifact
	if err := json.Unmarshal(doc, &a); err != nil {
		return abi.ABI{}, errors.NewInterfaceError("failed to parse contract artifact", err)
	}
	if len(a.ABI) == 0 || bytes.Equal(a.ABI, []byte("null")) {
		return abi.ABI{}, errors.NewInterfaceError("contract artifact has no abi field", nil)
	}

	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, errors.NewInterfaceError("failed to parse contract abi", err)
	}
	if err := checkMethods(parsed); err != nil {
		return abi.ABI{}, errors.NewInterfaceError("contract abi does not describe a registry", err)
	}
	return parsed, nil
}

func checkMethods(parsed abi.ABI) error {
	set, ok := parsed.Methods[MethodSet]
	if !ok {
		return fmt.Errorf("missing method %q", MethodSet)
	}
	if len(set.Inputs) != 1 || set.Inputs[0].Type.T != abi.StringTy {
		return fmt.Errorf("%s must take a single string, has %s", MethodSet, set.Sig)
	}
	if len(set.Outputs) != 0 {
		return fmt.Errorf("%s must not return values", MethodSet)
	}
	if set.IsConstant() {
		return fmt.Errorf("%s must be state-mutating", MethodSet)
	}

	get, ok := parsed.Methods[MethodGet]
	if !ok {
		return fmt.Errorf("missing method %q", MethodGet)
	}
	if len(get.Inputs) != 0 {
		return fmt.Errorf("%s must not take arguments, has %s", MethodGet, get.Sig)
	}
	if len(get.Outputs) != 1 || get.Outputs[0].Type.T != abi.StringTy {
		return fmt.Errorf("%s must return a single string", MethodGet)
	}
	if !get.IsConstant() {
		return fmt.Errorf("%s must be read-only", MethodGet)
	}
	return nil
}
