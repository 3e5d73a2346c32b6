package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergeStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    MergeStrategy
		wantErr bool
	}{
		{"squash", MergeSquash, false},
		{"merge", MergeCommit, false},
		{"rebase", MergeRebase, false},
		{" Squash ", MergeSquash, false},
		{"fast-forward", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMergeStrategy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %s", c)
	}
	assert.False(t, Category("misc").Valid())
}

func TestRepositoryIdentity(t *testing.T) {
	id := RepositoryIdentity{Host: "github.com", Owner: "octo", Repo: "hello"}
	assert.Equal(t, "octo/hello", id.FullName())
	assert.Equal(t, "github.com/octo/hello", id.String())
	assert.Equal(t, "octo/hello", RepositoryIdentity{Owner: "octo", Repo: "hello"}.String())
}

func TestRenderOptionsName(t *testing.T) {
	assert.Equal(t, "hello", RenderOptions{Repo: "hello"}.Name())
	assert.Equal(t, "Hello World", RenderOptions{Repo: "hello", ProjectName: "Hello World"}.Name())
}

func TestRenderOptionsWithDefaults(t *testing.T) {
	got := RenderOptions{Owner: "octo", Repo: "hello"}.WithDefaults()
	assert.Equal(t, DefaultIterations, got.MaxIterations)
	assert.Equal(t, MergeSquash, got.MergeStrategy)
	assert.Equal(t, DefaultSchedule, got.Schedule)
	assert.Equal(t, DefaultAgentLogin, got.AgentLogin)
	assert.Equal(t, DefaultSecretName, got.SecretName)
	assert.Equal(t, DefaultBaseBranch, got.BaseBranch)
	assert.Equal(t, DefaultInitialVersion, got.InitialVersion)
	assert.False(t, got.AutoMerge)

	kept := RenderOptions{MaxIterations: 7, MergeStrategy: MergeRebase, BaseBranch: "trunk"}.WithDefaults()
	assert.Equal(t, 7, kept.MaxIterations)
	assert.Equal(t, MergeRebase, kept.MergeStrategy)
	assert.Equal(t, "trunk", kept.BaseBranch)
}
