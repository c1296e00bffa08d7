package employees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueryWithoutFilters(t *testing.T) {
	query, args, err := listQuery(ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY e.created_at DESC")
}

func TestListQueryCombinesFilters(t *testing.T) {
	companyID := uuid.New().String()
	managerID := uuid.New().String()
	query, args, err := listQuery(ListFilter{
		CompanyID: companyID,
		ManagerID: managerID,
		Search:    "lena",
	})
	require.NoError(t, err)
	assert.Contains(t, query, "e.company_id = $1")
	assert.Contains(t, query, "e.manager_id = $2")
	assert.Contains(t, query, "e.name ILIKE $3")
	assert.Contains(t, query, "e.email ILIKE $4")
	assert.Equal(t, []any{companyID, managerID, "%lena%", "%lena%"}, args)
}
