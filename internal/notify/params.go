package notify

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"launch_notifier/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Recipients accepts either a single address or a list of addresses.
type Recipients []string

func (r *Recipients) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*r = nil
			return nil
		}
		*r = Recipients{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		return fmt.Errorf("recipients must be a string or a list of strings")
	}
}

// decodeParams converts free-form handler parameters into a typed,
// validated service config.
func decodeParams(kind ServiceKind, params map[string]any, out any) error {
	raw, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: encode %s parameters: %w", domain.ErrConfig, kind, err)
	}
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode %s parameters: %w", domain.ErrConfig, kind, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: invalid %s parameters: %w", domain.ErrConfig, kind, err)
	}
	return nil
}
