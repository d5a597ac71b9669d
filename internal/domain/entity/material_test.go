package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialValidate(t *testing.T) {
	valid := func() Material {
		return Material{ID: "M100", Name: "Bolt 8mm", Unit: "pcs", Quantity: 10}
	}

	t.Run("Valid material", func(t *testing.T) {
		m := valid()
		assert.NoError(t, m.Validate())
	})

	t.Run("Zero value status is active", func(t *testing.T) {
		m := valid()
		assert.Equal(t, StatusActive, m.Status)
		assert.True(t, m.Active())
	})

	t.Run("Invalid fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(m *Material)
			msg    string
		}{
			{"blank id", func(m *Material) { m.ID = "  " }, "id cannot be empty"},
			{"long id", func(m *Material) { m.ID = "M123456789" }, "id must not exceed 9 characters"},
			{"id with space", func(m *Material) { m.ID = "M 1" }, "id must not contain whitespace"},
			{"long name", func(m *Material) { m.Name = strings.Repeat("n", 50) }, "name must not exceed 49 characters"},
			{"blank unit", func(m *Material) { m.Unit = "" }, "unit cannot be empty"},
			{"long unit", func(m *Material) { m.Unit = "kilograms!" }, "unit must not exceed 9 characters"},
			{"negative quantity", func(m *Material) { m.Quantity = -1 }, "quantity cannot be negative"},
			{"unknown status", func(m *Material) { m.Status = Status(7) }, "unknown status"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := valid()
				tt.mutate(&m)
				err := m.Validate()
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidField)
				assert.Contains(t, err.Error(), tt.msg)
			})
		}
	})
}

func TestMaterialApply(t *testing.T) {
	m := Material{ID: "M1", Name: "Bolt", Unit: "pcs", Quantity: 4}

	name := "Hex bolt"
	require.NoError(t, m.Apply(MaterialUpdate{Name: &name}))
	assert.Equal(t, "Hex bolt", m.Name)
	assert.Equal(t, "pcs", m.Unit)
	assert.Equal(t, 4, m.Quantity)

	bad := -3
	err := m.Apply(MaterialUpdate{Quantity: &bad})
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, 4, m.Quantity, "rejected update leaves the material unchanged")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Active", StatusActive.String())
	assert.Equal(t, "Expired", StatusExpired.String())
	assert.Equal(t, StatusActive, StatusActive.Toggle().Toggle())

	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	s, err = ParseStatus("0")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, s)

	s, err = ParseStatus("Expired")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, s)

	_, err = ParseStatus("2")
	assert.ErrorIs(t, err, ErrInvalidField)
}
