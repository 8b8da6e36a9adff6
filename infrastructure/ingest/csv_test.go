package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = `ProductID,ProductName,ProductBrand,Gender,Price (INR),NumImages,Description,PrimaryColor
10001,Solid Casual Shirt,IndoBrand,Men,1299,5,A solid casual shirt,Blue
10002,Printed Kurta,EthnicWear,Women,899,4,A printed kurta,Red
10003,Broken Row,NoPrice,Men,notanumber,3,bad price,Black
10004,,NoName,Women,500,2,missing name,White
10005,Slim Jeans,DenimCo,Men,1999,6,slim fit jeans,Black
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVLoader_Load(t *testing.T) {
	loader := NewCSVLoader(zap.NewNop())

	products, err := loader.Load(context.Background(), writeSample(t, sampleCSV))
	require.NoError(t, err)

	// The unparsable price row and the nameless row are skipped.
	require.Len(t, products, 3)

	first := products[0]
	assert.Equal(t, "10001", first.ID)
	assert.Equal(t, "Solid Casual Shirt", first.Name)
	assert.Equal(t, "IndoBrand", first.Brand)
	assert.Equal(t, "men", first.Gender, "gender is normalized to lower case")
	assert.Equal(t, "blue", first.Color, "color is normalized to lower case")
	assert.Equal(t, 1299.0, first.Price)
	assert.Equal(t, 5, first.NumImages)
	assert.Equal(t, "a solid casual shirt", first.Description)
}

func TestCSVLoader_Load_MissingFile(t *testing.T) {
	loader := NewCSVLoader(zap.NewNop())
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestCSVLoader_Load_MissingRequiredColumn(t *testing.T) {
	loader := NewCSVLoader(zap.NewNop())
	path := writeSample(t, "ProductID,ProductName,Gender\n1,Thing,Men\n")

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Price (INR)")
}

func TestCSVLoader_Load_EmptyBody(t *testing.T) {
	loader := NewCSVLoader(zap.NewNop())
	path := writeSample(t, "ProductID,ProductName,ProductBrand,Gender,Price (INR),NumImages,Description,PrimaryColor\n")

	products, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCSVLoader_Load_CancelledContext(t *testing.T) {
	loader := NewCSVLoader(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, writeSample(t, sampleCSV))
	assert.ErrorIs(t, err, context.Canceled)
}
