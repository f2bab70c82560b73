// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/extcfg/extcfg/internal/render"
)

func TestOrderMode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   OrderMode
		wantErr bool
	}{
		{OrderDependency, false},
		{OrderInstalled, false},
		{"", true},
		{"alphabetical", true},
	}
	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("OrderMode(%q).Validate() = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidOrderMode) {
			t.Errorf("error %v does not wrap ErrInvalidOrderMode", err)
		}
	}
}

func TestRootPosition_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   RootPosition
		wantErr bool
	}{
		{RootLast, false},
		{RootFirst, false},
		{"LAST", true},
		{"", true},
	}
	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("RootPosition(%q).Validate() = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRootPosition) {
			t.Errorf("error %v does not wrap ErrInvalidRootPosition", err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{"defaults", func(*Config) {}, nil},
		{"legacy file", func(c *Config) { c.LegacyExtensionsFile = "yiisoft/extensions.php" }, nil},
		{"bad format", func(c *Config) { c.Format = "xml" }, []error{render.ErrInvalidFormat}},
		{"legacy escapes vendor", func(c *Config) { c.LegacyExtensionsFile = "../x.php" }, []error{ErrInvalidLegacyPath}},
		{"absolute legacy", func(c *Config) { c.LegacyExtensionsFile = "/x.php" }, []error{ErrInvalidLegacyPath}},
		{
			"several fields",
			func(c *Config) { c.Order = "x"; c.RootPosition = "y" },
			[]error{ErrInvalidOrderMode, ErrInvalidRootPosition},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() = %v, want it to wrap %v", err, want)
				}
			}
		})
	}
}
