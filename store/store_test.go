package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONPathQuotesEverySegment(t *testing.T) {
	// bucket keys contain dashes, so bare segments would be invalid
	assert.Equal(t, `$."2024-09-02"."A1B2C3D4E5"`, JSONPath("2024-09-02.A1B2C3D4E5"))
	assert.Equal(t, `$."2024-09-02"."A1B2C3D4E5"."available"`, JSONPath("2024-09-02.A1B2C3D4E5.available"))
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "2024-09-02.A1", FieldPath("2024-09-02", "A1"))
	assert.Equal(t, "2024-09-02.A1.volunteer", FieldPath("2024-09-02", "A1", "volunteer"))
}
