package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func queryFor(t *testing.T, rawQuery string) Query {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Size: 10}, queryFor(t, ""))
	assert.Equal(t, Query{Page: 3, Size: 25}, queryFor(t, "page=3&size=25"))
	assert.Equal(t, Query{Page: 1, Size: 10}, queryFor(t, "page=-1&size=0"))
	assert.Equal(t, Query{Page: 1, Size: MaxSize}, queryFor(t, "size=5000"))
	assert.Equal(t, Query{Page: 1, Size: 10}, queryFor(t, "page=abc&size=xyz"))
}

type row struct {
	ID int `gorm:"primaryKey"`
}

func TestPaginate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:paginate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	for i := 1; i <= 23; i++ {
		require.NoError(t, db.Create(&row{ID: i}).Error)
	}

	var rows []row
	meta, err := Paginate(db.Model(&row{}).Order("id ASC"), Query{Page: 3, Size: 10}, &rows)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.EqualValues(t, 23, meta.Total)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPage)
	assert.False(t, meta.HasNextPage)

	rows = nil
	meta, err = Paginate(db.Model(&row{}).Order("id ASC"), Query{Page: 1, Size: 10}, &rows)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.True(t, meta.HasNextPage)
	assert.Equal(t, 1, rows[0].ID)
}
