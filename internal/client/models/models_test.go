package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContactMasked(t *testing.T) {
	c := Contact{
		ID:       "c1",
		Name:     "Jane Doe",
		Email:    "jane.doe@acme.example",
		Phone:    "+51 987 654 321",
		Position: "Recruiter",
	}

	m := c.Masked()

	require.Equal(t, "J*** D***", m.Name)
	require.Equal(t, "j***@acme.example", m.Email)
	require.Equal(t, "*** *** 21", m.Phone)
	// identifiers and non-sensitive fields survive untouched
	require.Equal(t, "c1", m.ID)
	require.Equal(t, "Recruiter", m.Position)

	require.NotContains(t, m.Name, "Jane")
	require.NotContains(t, m.Email, "jane.doe")
	require.NotContains(t, m.Phone, "987")
}

func TestContactMasked_EmptyAndDegenerate(t *testing.T) {
	require.Equal(t, Contact{}, Contact{}.Masked())

	odd := Contact{Email: "not-an-email", Phone: "12"}
	m := odd.Masked()
	require.Equal(t, "***", m.Email)
	require.Equal(t, "***", m.Phone)
}

func TestContactMerge(t *testing.T) {
	masked := Contact{ID: "c1", CompanyID: "co1", Name: "J***", Email: "j***@x.y"}
	revealed := Contact{ID: "c1", Name: "Jane Doe", Email: "jane@x.y", Phone: "123456", Position: "CTO"}

	got := masked.Merge(revealed)

	require.Equal(t, "c1", got.ID)
	require.Equal(t, "co1", got.CompanyID)
	require.Equal(t, "Jane Doe", got.Name)
	require.Equal(t, "jane@x.y", got.Email)
	require.Equal(t, "123456", got.Phone)
	require.Equal(t, "CTO", got.Position)
	require.True(t, got.IsUnlocked)
}

func TestRoleIsAdmin(t *testing.T) {
	require.False(t, RoleUser.IsAdmin())
	require.True(t, RoleCompanyAdmin.IsAdmin())
	require.True(t, RoleSuperAdmin.IsAdmin())
}

func TestPageHasMore(t *testing.T) {
	require.True(t, Page[Job]{Page: 1, TotalPages: 3}.HasMore())
	require.False(t, Page[Job]{Page: 3, TotalPages: 3}.HasMore())
	require.False(t, Page[Job]{}.HasMore())
}
