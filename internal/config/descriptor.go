package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/pkg/pbs"
)

// DescriptorFileName is the default project descriptor.
const DescriptorFileName = "project.json"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadDescriptor reads and validates the project descriptor at path.
func LoadDescriptor(fsProvider filesystem.FileSystemProvider, path string) (*pbs.ProjectDescriptor, error) {
	data, err := fsProvider.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read project file %s: %v", pbs.ErrInvalidConfig, path, err)
	}
	return ParseDescriptor(data)
}

// ParseDescriptor decodes a project descriptor and checks required fields.
func ParseDescriptor(data []byte) (*pbs.ProjectDescriptor, error) {
	var desc pbs.ProjectDescriptor
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: malformed project file: %v", pbs.ErrInvalidConfig, err)
	}
	if err := validate.Struct(desc); err != nil {
		return nil, describeValidation(err)
	}
	return &desc, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", pbs.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: project file: %s", pbs.ErrInvalidConfig, strings.Join(msgs, ", "))
}
