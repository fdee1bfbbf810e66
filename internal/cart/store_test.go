package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var coralHoodie = ProductSnapshot{
	ID:       "p-coral",
	Slug:     "coral-hoodie",
	Name:     "Coral Hoodie",
	Price:    "€280",
	Discount: 15,
	Image:    "/images/coral.png",
}

var slateHoodie = ProductSnapshot{ID: "p-slate", Slug: "slate-hoodie", Name: "Slate Hoodie", Price: "€250"}

type failingStorage struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStorage) Load(string) ([]byte, error) { return nil, f.loadErr }

func (f *failingStorage) Save(string, []byte) error {
	f.saves++
	return f.saveErr
}

func TestAddToCart_MergesSameKey(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)

	items := store.Items()
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
	require.Equal(t, Key{VariantSlug: "coral-hoodie", Size: "M"}, items[0].Key())
}

func TestAddToCart_SumsRepeatedAdds(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	quantities := []int{1, 4, 2, 7, 1}
	want := 0
	for _, q := range quantities {
		store.AddToCart(coralHoodie, "coral-hoodie", "S", q)
		want += q
	}
	require.Equal(t, 1, store.Len())
	require.Equal(t, want, store.Items()[0].Quantity)
}

func TestAddToCart_DifferentSizeIsNewLine(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.AddToCart(coralHoodie, "coral-hoodie", "L", 1)
	store.AddToCart(slateHoodie, "slate-hoodie", "M", 1)

	items := store.Items()
	require.Len(t, items, 3)
	require.Equal(t, "M", items[0].Size)
	require.Equal(t, "L", items[1].Size)
	require.Equal(t, "slate-hoodie", items[2].Slug)
}

func TestAddToCart_IgnoresNonPositiveQuantity(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 0)
	store.AddToCart(coralHoodie, "coral-hoodie", "M", -2)
	require.Zero(t, store.Len())
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		store := NewStore(NewMemoryStorage())
		store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)
		store.AddToCart(slateHoodie, "slate-hoodie", "M", 1)

		removed := NewStore(NewMemoryStorage())
		removed.AddToCart(coralHoodie, "coral-hoodie", "M", 2)
		removed.AddToCart(slateHoodie, "slate-hoodie", "M", 1)
		removed.RemoveFromCart("coral-hoodie", "M")

		store.UpdateQuantity("coral-hoodie", "M", q)
		require.Equal(t, removed.Items(), store.Items())
	}
}

func TestUpdateQuantity_SetsAbsoluteValue(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)

	store.UpdateQuantity("coral-hoodie", "M", 5)
	require.Equal(t, 5, store.Items()[0].Quantity)

	store.UpdateQuantity("coral-hoodie", "XL", 9)
	require.Equal(t, 1, store.Len())
	require.Equal(t, 5, store.CartCount())
}

func TestRemoveFromCart_AbsentKeyIsNoop(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	require.NotPanics(t, func() { store.RemoveFromCart("coral-hoodie", "M") })
	require.Empty(t, store.Items())

	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.RemoveFromCart("coral-hoodie", "L")
	require.Equal(t, 1, store.Len())
}

func TestCartTotal_IgnoresDiscount(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)

	require.True(t, decimal.NewFromInt(560).Equal(store.CartTotal()), store.CartTotal().String())
}

func TestCartTotalAndCount(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)
	store.AddToCart(slateHoodie, "slate-hoodie", "L", 3)

	require.Equal(t, 5, store.CartCount())
	require.True(t, decimal.NewFromInt(2*280+3*250).Equal(store.CartTotal()))
}

func TestCartTotal_UnparseablePriceCountsAsZero(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.AddToCart(ProductSnapshot{Name: "Gift", Price: "free"}, "gift", "M", 3)
	require.True(t, store.CartTotal().IsZero())
	require.Equal(t, 3, store.CartCount())
}

func TestClearCart(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 2)

	store.ClearCart()
	require.Empty(t, store.Items())

	data, err := storage.Load(DefaultStorageKey)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestStore_PersistsAndRehydrates(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.AddToCart(slateHoodie, "slate-hoodie", "XS", 2)
	store.AddToCart(coralHoodie, "coral-hoodie", "L", 4)

	reloaded := NewStore(storage)
	require.Equal(t, store.Items(), reloaded.Items())
}

func TestStore_PersistedFormat(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage, WithStorageKey("custom"))
	store.AddToCart(slateHoodie, "slate-hoodie", "M", 1)

	data, err := storage.Load("custom")
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"product": {"id": "p-slate", "slug": "slate-hoodie", "name": "Slate Hoodie", "price": "€250"},
		"slug": "slate-hoodie",
		"size": "M",
		"quantity": 1
	}]`, string(data))
}

func TestNewStore_MalformedSnapshotStartsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(DefaultStorageKey, []byte(`[{"slug": "coral-hoodie",`)))

	var store *Store
	require.NotPanics(t, func() { store = NewStore(storage) })
	require.Empty(t, store.Items())

	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	require.Equal(t, 1, store.Len())
}

func TestNewStore_LoadErrorStartsEmpty(t *testing.T) {
	store := NewStore(&failingStorage{loadErr: errors.New("storage disabled")})
	require.Empty(t, store.Items())
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	storage := &failingStorage{loadErr: ErrSnapshotNotFound, saveErr: errors.New("quota exceeded")}
	store := NewStore(storage)

	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.AddToCart(coralHoodie, "coral-hoodie", "M", 1)
	store.UpdateQuantity("coral-hoodie", "M", 4)

	require.Equal(t, 4, store.CartCount())
	require.Equal(t, 3, storage.saves)
}
