package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Load reads the .env file (if present) in the working directory, reads and
// interpolates the config file at path, parses it as JSON5, and validates
// the result. A missing .env file is not an error; everything else (a
// missing config file, malformed JSON5, a shape that fails validation) is
// fatal, matching the bootstrap's "nothing is retried" contract.
func Load(path string) (*File, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := interpolate(string(raw))
	if err != nil {
		return nil, err
	}

	var file File
	if err := json5.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := validateFile(&file); err != nil {
		return nil, err
	}

	return &file, nil
}

func validateFile(file *File) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(file); err != nil {
		return formatValidationErrors(err)
	}
	for name, server := range file.McpServers {
		if err := server.validateShape(name); err != nil {
			return err
		}
	}
	return nil
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("config: %s", verrs.Error())
	}
	return fmt.Errorf("config: %w", err)
}
