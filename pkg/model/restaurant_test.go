package model_test

import (
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestRestaurantHasPerk(t *testing.T) {
	r := &model.Restaurant{PerkIDs: []int{10, 12}}
	gt.True(t, r.HasPerk(10))
	gt.True(t, r.HasPerk(12))
	gt.False(t, r.HasPerk(11))

	empty := &model.Restaurant{}
	gt.False(t, empty.HasPerk(10))
}
