package main

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    cliOptions
		wantErr string
	}{
		{
			name: "defaults",
			args: nil,
			want: cliOptions{},
		},
		{
			name: "migrate up verbose",
			args: []string{"--migrate=up", "--verbose"},
			want: cliOptions{migrate: "up", verbose: true},
		},
		{
			name: "create migration",
			args: []string{"--migrate", "create", "--migration-name", "add_tags"},
			want: cliOptions{migrate: "create", migrationName: "add_tags"},
		},
		{
			name: "seed with config",
			args: []string{"--seed", "--config", "/etc/taskboard/config.yaml"},
			want: cliOptions{seed: true, configPath: "/etc/taskboard/config.yaml"},
		},
		{
			name:    "create without name",
			args:    []string{"--migrate=create"},
			wantErr: "--migration-name is required",
		},
		{
			name:    "migrate and seed",
			args:    []string{"--migrate=up", "--seed"},
			wantErr: "cannot be combined",
		},
		{
			name:    "unknown flag",
			args:    []string{"--port=9000"},
			wantErr: "unknown flag",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseFlags(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	t.Parallel()

	_, err := parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestHandleMigrations_RejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	err := handleMigrations(ctx, nil, "drop-everything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}
