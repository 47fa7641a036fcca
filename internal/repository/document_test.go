package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/model"
)

func TestEncodeDocument(t *testing.T) {
	p := &model.ProfileRecord{
		ID:                 "abc",
		Name:               "Jane",
		FreelanceAvailable: model.NewTriState(false),
		TechnicalSkills:    []model.Skill{{Name: "Go", Level: model.NewSkillLevel(90)}},
	}

	data, digest, err := EncodeDocument(p)
	require.NoError(t, err)
	assert.Len(t, digest, 64)
	assert.Equal(t, Digest(data), digest)

	decoded, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)

	// Same content, same digest; any change, new digest.
	_, again, err := EncodeDocument(p)
	require.NoError(t, err)
	assert.Equal(t, digest, again)

	p.Name = "Janet"
	_, changed, err := EncodeDocument(p)
	require.NoError(t, err)
	assert.NotEqual(t, digest, changed)
}

func TestDecodeDocument_Invalid(t *testing.T) {
	_, err := DecodeDocument([]byte("{"))
	assert.Error(t, err)
}
