package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := list.Hit(ray, defaultRange()); isHit || hit != nil {
		t.Errorf("Empty list should never report a hit, got %+v", hit)
	}
}

func TestHittableList_ClosestHitWinsRegardlessOfOrder(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	nearSphere := NewSphere(core.NewVec3(0, 0, -2), 0.5, near)
	farSphere := NewSphere(core.NewVec3(0, 0, -5), 0.5, far)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	orders := map[string]*HittableList{
		"near first": NewHittableList(nearSphere, farSphere),
		"far first":  NewHittableList(farSphere, nearSphere),
	}

	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := list.Hit(ray, defaultRange())
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected closest t=1.5, got %f", hit.T)
			}
			if hit.Material != near {
				t.Errorf("Expected material of the nearer sphere")
			}
		})
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial))
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 0.5, testMaterial))

	if list.Len() != 2 {
		t.Fatalf("Expected 2 objects, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Fatalf("Expected empty list after Clear, got %d", list.Len())
	}
}

func TestHittableList_ResultIsMinimumOfMembers(t *testing.T) {
	random := rand.New(rand.NewSource(99))
	sampler := core.NewRandomSampler(random)

	list := NewHittableList()
	for i := 0; i < 20; i++ {
		center := core.RandomVec3InRange(sampler, -5, 5)
		list.Add(NewSphere(center, 0.2+random.Float64(), testMaterial))
	}

	for i := 0; i < 200; i++ {
		ray := core.NewRay(
			core.RandomVec3InRange(sampler, -8, 8),
			core.RandomUnitVector(sampler),
		)
		rayT := core.NewInterval(0.001, math.Inf(1))

		hit, isHit := list.Hit(ray, rayT)
		for _, member := range list.Objects {
			memberHit, memberIsHit := member.Hit(ray, rayT)
			if !memberIsHit {
				continue
			}
			if !isHit {
				t.Fatalf("Member reports hit at t=%f but list reports miss", memberHit.T)
			}
			if hit.T > memberHit.T {
				t.Fatalf("List hit t=%f is farther than member hit t=%f", hit.T, memberHit.T)
			}
		}
	}
}
