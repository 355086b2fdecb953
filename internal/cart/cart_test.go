package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemorySlot) {
	slot := NewMemorySlot()
	return NewService(slot), slot
}

var (
	coffee = Product{ID: "prod-1", Name: "Coffee", SalePrice: "10.00"}
	tea    = Product{ID: "prod-2", Name: "Tea", SalePrice: "5.50"}
)

// ============================================
// AddItem Tests
// ============================================

func TestService_AddItem_NewLine(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	lines, err := svc.AddItem(ctx, "user-1", coffee)

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "prod-1", lines[0].ProductID)
	assert.Equal(t, "Coffee", lines[0].Name)
	assert.Equal(t, "10.00", lines[0].SalePrice)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, slot.Has("user-1"))
}

func TestService_AddItem_ExistingLineIncrementsQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	lines, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	// One line with quantity 2, not two lines
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestService_AddItem_PreservesInsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", tea)
	require.NoError(t, err)
	lines, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "prod-1", lines[0].ProductID)
	assert.Equal(t, "prod-2", lines[1].ProductID)
}

func TestService_AddItem_EmptyProductID(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", Product{})

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.False(t, slot.Has("user-1"))
}

// ============================================
// RemoveItem Tests
// ============================================

func TestService_RemoveItem(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", tea)
	require.NoError(t, err)

	lines := svc.RemoveItem(ctx, "user-1", "prod-1")

	require.Len(t, lines, 1)
	assert.Equal(t, "prod-2", lines[0].ProductID)
	assert.True(t, slot.Has("user-1"))
}

func TestService_RemoveItem_LastLineDeletesSlot(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	lines := svc.RemoveItem(ctx, "user-1", "prod-1")

	assert.Empty(t, lines)
	// Empty cart deletes the slot entry instead of storing an empty list
	assert.False(t, slot.Has("user-1"))
}

func TestService_RemoveItem_AbsentProductIsNoop(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	lines := svc.RemoveItem(ctx, "user-1", "prod-missing")

	require.Len(t, lines, 1)
	assert.Equal(t, "prod-1", lines[0].ProductID)
}

// ============================================
// UpdateQuantity Tests
// ============================================

func TestService_UpdateQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	lines := svc.UpdateQuantity(ctx, "user-1", "prod-1", 5)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestService_UpdateQuantity_RejectsBelowOne(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	svc.UpdateQuantity(ctx, "user-1", "prod-1", 3)

	for _, quantity := range []int{0, -5} {
		lines := svc.UpdateQuantity(ctx, "user-1", "prod-1", quantity)
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	}
}

func TestService_UpdateQuantity_AbsentProductIsNoop(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	lines := svc.UpdateQuantity(ctx, "user-1", "prod-missing", 5)

	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

// ============================================
// Clear / Count / Rehydration Tests
// ============================================

func TestService_Clear(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)

	svc.Clear(ctx, "user-1")

	assert.Empty(t, svc.Get(ctx, "user-1"))
	assert.False(t, slot.Has("user-1"))
}

func TestService_Clear_AlreadyEmptyIsNoop(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	svc.Clear(ctx, "user-1")

	assert.Empty(t, svc.Get(ctx, "user-1"))
	assert.False(t, slot.Has("user-1"))
}

func TestService_TotalItemCount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.Equal(t, 0, svc.TotalItemCount(ctx, "user-1"))

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", tea)
	require.NoError(t, err)

	assert.Equal(t, 3, svc.TotalItemCount(ctx, "user-1"))
}

func TestService_Rehydration_RoundTrip(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()

	svc := NewService(slot)
	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", tea)
	require.NoError(t, err)
	svc.UpdateQuantity(ctx, "user-1", "prod-1", 2)

	// A fresh service over the same slot sees the identical cart
	rehydrated := NewService(slot).Get(ctx, "user-1")

	require.Len(t, rehydrated, 2)
	assert.Equal(t, "prod-1", rehydrated[0].ProductID)
	assert.Equal(t, "Coffee", rehydrated[0].Name)
	assert.Equal(t, 2, rehydrated[0].Quantity)
	assert.Equal(t, "prod-2", rehydrated[1].ProductID)
	assert.Equal(t, 1, rehydrated[1].Quantity)
}

func TestService_Rehydration_CorruptSlotIsEmptyCart(t *testing.T) {
	svc, slot := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	slot.Corrupt("user-1")

	assert.Empty(t, svc.Get(ctx, "user-1"))
}

func TestService_CartsAreIsolatedPerOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", coffee)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-2", tea)
	require.NoError(t, err)

	lines1 := svc.Get(ctx, "user-1")
	lines2 := svc.Get(ctx, "user-2")
	require.Len(t, lines1, 1)
	require.Len(t, lines2, 1)
	assert.Equal(t, "prod-1", lines1[0].ProductID)
	assert.Equal(t, "prod-2", lines2[0].ProductID)
}
