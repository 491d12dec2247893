//go:build integration

package integration

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/curfew/internal/daemon"
	"github.com/eliteGoblin/focusd/curfew/internal/domain"
	"github.com/eliteGoblin/focusd/curfew/internal/infra"
	"github.com/eliteGoblin/focusd/curfew/internal/policy"
	"github.com/eliteGoblin/focusd/curfew/internal/usecase"
	"github.com/eliteGoblin/focusd/curfew/test/fixtures"
)

type recordingNotifier struct {
	bodies []string
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.bodies = append(n.bodies, body)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func at(hour int) time.Time {
	return time.Date(2025, time.March, 14, hour, 0, 0, 0, time.Local)
}

var _ = Describe("Enforcer with the real process table", func() {
	var (
		tmpDir   string
		fake     *fixtures.FakeTarget
		notifier *recordingNotifier
		enforcer *usecase.EnforcerImpl
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "curfew-integration-*")
		Expect(err).NotTo(HaveOccurred())

		fake, err = fixtures.NewFakeTarget(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(fake.Start()).To(Succeed())

		p := policy.Default()
		p.Target = fake.Name()
		p.Window = policy.NewWindow(21, 1)

		notifier = &recordingNotifier{}
		enforcer = usecase.NewEnforcer(infra.NewProcessTable(), notifier, p, zap.NewNop())
	})

	AfterEach(func() {
		fake.Cleanup()
		os.RemoveAll(tmpDir)
	})

	Context("inside the restricted window", func() {
		It("should terminate the target and alert once", func() {
			Eventually(func() int {
				result, err := enforcer.Tick(context.Background(), at(22))
				Expect(err).NotTo(HaveOccurred())
				return result.Attempts
			}, 5*time.Second, 100*time.Millisecond).Should(Equal(1))

			Eventually(fake.Exited, 5*time.Second).Should(BeTrue())
			Expect(notifier.bodies).To(HaveLen(1))
			Expect(notifier.bodies[0]).To(ContainSubstring("Attempts today: 1"))
		})

		It("should forget the PID once the process is gone", func() {
			var result *domain.CycleResult
			Eventually(func() bool {
				var err error
				result, err = enforcer.Tick(context.Background(), at(23))
				Expect(err).NotTo(HaveOccurred())
				return result.Acted()
			}, 5*time.Second, 100*time.Millisecond).Should(BeTrue())
			Expect(result.Target.PID).To(Equal(fake.PID()))
			Expect(enforcer.Snapshot().HandledPIDs).To(ConsistOf(fake.PID()))

			Eventually(fake.Exited, 5*time.Second).Should(BeTrue())

			_, err := enforcer.Tick(context.Background(), at(23).Add(3*time.Second))
			Expect(err).NotTo(HaveOccurred())
			Expect(enforcer.Snapshot().HandledPIDs).To(BeEmpty())
			Expect(enforcer.Snapshot().Attempts).To(Equal(1))
		})
	})

	Context("outside the restricted window", func() {
		It("should leave the target running", func() {
			result, err := enforcer.Tick(context.Background(), at(14))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Restricted).To(BeFalse())
			Expect(result.Attempts).To(BeZero())

			Consistently(fake.Exited, 500*time.Millisecond).Should(BeFalse())
			Expect(notifier.bodies).To(BeEmpty())
		})
	})

	Context("driven by the watcher loop", func() {
		It("should terminate the target and stop cleanly on cancel", func() {
			watcher := daemon.NewWatcher(
				daemon.WatcherConfigFor(100*time.Millisecond),
				enforcer,
				fixedClock{t: at(0)},
				zap.NewNop(),
			)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- watcher.Run(ctx) }()

			Eventually(fake.Exited, 5*time.Second).Should(BeTrue())
			cancel()

			var runErr error
			Eventually(done, 5*time.Second).Should(Receive(&runErr))
			Expect(runErr).NotTo(HaveOccurred())
			Expect(enforcer.Snapshot().Attempts).To(Equal(1))
		})
	})
})
