package robot

import (
	"testing"

	"github.com/talgya/terra-world/internal/entities"
	"github.com/talgya/terra-world/internal/world"
)

func TestEnergy(t *testing.T) {
	r := New(5)
	if r.CanAfford(7) {
		t.Fatal("robot with 5 energy should not afford 7")
	}
	if !r.CanAfford(5) {
		t.Fatal("robot with 5 energy should afford 5")
	}
	r.Consume(2)
	r.Recharge(10)
	if r.Energy != 13 {
		t.Errorf("energy = %d, want 13", r.Energy)
	}
	r.MoveTo(world.Coord{X: 1, Y: 2})
	if r.Pos != (world.Coord{X: 1, Y: 2}) {
		t.Errorf("pos = %+v", r.Pos)
	}
}

func TestInventoryByName(t *testing.T) {
	r := New(0)
	lake := &entities.Water{Name: "Lake"}
	fern := &entities.Plant{Kind: entities.PlantFern, Name: "Fern"}

	r.AddToInventory(lake)
	r.AddToInventory(fern)
	r.AddToInventory(&entities.Water{Name: "Lake"})

	if !r.HasEntity("Lake") || !r.HasEntity("Fern") {
		t.Fatal("expected Lake and Fern in inventory")
	}
	if r.HasEntity("Pond") {
		t.Fatal("Pond should not be in inventory")
	}

	if !r.RemoveFromInventory("Lake") {
		t.Fatal("remove Lake returned false")
	}
	if !r.HasEntity("Lake") {
		t.Fatal("second Lake should remain after removing the first")
	}
	inv := r.Inventory()
	if len(inv) != 2 || inv[0] != entities.Entity(fern) {
		t.Errorf("inventory order = %v", inv)
	}
	if r.RemoveFromInventory("Pond") {
		t.Error("removing a missing entity should return false")
	}
}

func TestKnowledgeBaseOrder(t *testing.T) {
	r := New(0)
	r.Learn("Oak", "Method to plant Oak")
	r.Learn("Lake", "Method to increase humidity")
	r.Learn("Oak", "Method to plant Oak")

	topics := r.Knowledge().Topics()
	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(topics))
	}
	if topics[0].Topic != "Oak" || topics[1].Topic != "Lake" {
		t.Errorf("topic order = %q, %q", topics[0].Topic, topics[1].Topic)
	}
	if len(topics[0].Facts) != 2 {
		t.Errorf("duplicate facts should be kept, got %v", topics[0].Facts)
	}
	if !r.Knows("Lake", "Method to increase humidity") {
		t.Error("expected Lake fact to be known")
	}
	if r.Knows("Lake", "Method to plant Lake") {
		t.Error("unexpected fact reported as known")
	}
}

func TestTopicsIsSnapshot(t *testing.T) {
	var kb KnowledgeBase
	kb.Add("Moss", "a")
	topics := kb.Topics()
	topics[0].Facts[0] = "changed"
	if !kb.Contains("Moss", "a") {
		t.Error("mutating a snapshot changed the knowledge base")
	}
}
