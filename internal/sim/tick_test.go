package sim_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

func totalMass(s sim.Snapshot) float64 {
	return physics.TotalMass(s.Anchors) + physics.TotalMass(s.Bodies(true))
}

func population(s sim.Snapshot) int {
	return len(s.Anchors) + len(s.Bodies(true))
}

func tickN(sys *sim.BodySystem, n int) {
	for i := 0; i < n; i++ {
		Expect(sys.UpdatePositions()).To(Succeed())
	}
}

var _ = Describe("BodySystem tick", func() {
	var sys *sim.BodySystem

	newSystem := func(collisions bool) *sim.BodySystem {
		s := sim.New(sim.Options{Partitions: 6, Workers: 3, CollisionsEnabled: collisions})
		DeferCleanup(s.Close)
		s.ResetScenario()
		return s
	}

	Context("with collisions enabled", func() {
		BeforeEach(func() {
			sys = newSystem(true)
			sys.AddRandomBodies(3000, rand.New(rand.NewSource(21)))
		})

		It("conserves total mass", func() {
			before := totalMass(sys.Snapshot())
			tickN(sys, 40)
			Expect(totalMass(sys.Snapshot())).To(BeNumerically("~", before, before*1e-10))
		})

		It("logs exactly one collision per vanished body", func() {
			before := population(sys.Snapshot())
			tickN(sys, 40)
			after := sys.Snapshot()
			Expect(before - population(after)).To(Equal(len(after.Collisions)))
		})

		It("stamps each record with a frame that has already run", func() {
			tickN(sys, 25)
			snap := sys.Snapshot()
			for _, c := range snap.Collisions {
				Expect(c.Frame).To(BeNumerically(">=", 1))
				Expect(c.Frame).To(BeNumerically("<=", snap.Frame))
			}
		})

		It("merges transient bodies only into anchors that survive the tick", func() {
			for i := 0; i < 25; i++ {
				tickN(sys, 1)
				alive := map[uint64]bool{}
				for _, a := range sys.Anchors() {
					alive[a.ID] = true
				}
				for _, c := range sys.Collisions(1) {
					Expect(alive).To(HaveKey(c.WinnerID))
				}
			}
		})

		It("keeps body IDs unique", func() {
			tickN(sys, 10)
			seen := map[uint64]bool{}
			snap := sys.Snapshot()
			for _, b := range append(snap.Anchors, snap.Bodies(true)...) {
				Expect(seen).NotTo(HaveKey(b.ID))
				seen[b.ID] = true
			}
		})

		It("absorbs the moon into the earth on the first tick", func() {
			tickN(sys, 1)
			for _, a := range sys.Anchors() {
				Expect(a.Kind).NotTo(Equal(physics.Moon))
			}
		})
	})

	Context("with collisions disabled", func() {
		BeforeEach(func() {
			sys = newSystem(false)
		})

		It("keeps the population constant", func() {
			sys.AddRandomBodies(1000, rand.New(rand.NewSource(4)))
			before := population(sys.Snapshot())
			tickN(sys, 30)
			Expect(population(sys.Snapshot())).To(Equal(before))
			Expect(sys.Collisions(math.MaxUint64)).To(BeEmpty())
		})

		It("never lets transient bodies pull on anchors", func() {
			bare := newSystem(false)
			sys.AddRandomBodies(2000, rand.New(rand.NewSource(8)))

			tickN(sys, 30)
			tickN(bare, 30)
			Expect(sys.Anchors()).To(Equal(bare.Anchors()))
		})

		It("advances the frame once per tick", func() {
			tickN(sys, 7)
			Expect(sys.Frame()).To(Equal(uint64(7)))
			Expect(sys.Stats().Ticks).To(Equal(uint64(7)))
			Expect(sys.Stats().AvgTick()).To(BeNumerically(">", 0))
		})
	})

	Describe("frame wraparound", func() {
		It("continues from zero and clears stale collisions", func() {
			sys = newSystem(true)
			tickN(sys, 1)
			Expect(sys.Snapshot().Collisions).NotTo(BeEmpty())

			sys.SetFrame(math.MaxUint64)
			tickN(sys, 1)
			Expect(sys.Frame()).To(BeZero())
			Expect(sys.Snapshot().Collisions).To(BeEmpty())
		})
	})

	Describe("Summary", func() {
		It("counts comets separately from the view filter", func() {
			sys = newSystem(false)
			_, err := sys.AddBody(physics.Body{Kind: physics.Comet, Mass: 1e12})
			Expect(err).NotTo(HaveOccurred())
			sys.AddRandomBodies(3, rand.New(rand.NewSource(1)))

			sum := sys.Summary()
			Expect(sum.Comets).To(Equal(1))
			Expect(sum.Transients).To(Equal(4))

			snap := sys.Snapshot()
			Expect(snap.Bodies(false)).To(HaveLen(3))
			Expect(snap.Bodies(true)).To(HaveLen(4))
		})
	})
})
