package cqrs_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	require.True(t, errx.IsCodeIn(err, code), "want code %s, got %v", code, err)
}
