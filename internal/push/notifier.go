package push

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/store"
)

// Notifier pushes workflow events (a death reported, a claim approved) to
// the devices of admin and operator accounts.
type Notifier struct {
	svc       *Service
	pushStore *store.PushStore
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewNotifier(svc *Service, ps *store.PushStore, us *store.UserStore, logger *slog.Logger) *Notifier {
	return &Notifier{svc: svc, pushStore: ps, userStore: us, logger: logger}
}

// DeathRecorded notifies administrators that a death was reported.
func (n *Notifier) DeathRecorded(memberName, dateOfDeath string) {
	n.sendToAdmins(Payload{
		Title: "Laporan kematian baru",
		Body:  fmt.Sprintf("%s dilaporkan wafat pada %s", memberName, dateOfDeath),
		URL:   "/kematian",
		Tag:   "death-recorded",
	})
}

// ClaimApproved notifies administrators that a benefit claim was approved
// and the payout recorded.
func (n *Notifier) ClaimApproved(memberName string, amount decimal.Decimal) {
	n.sendToAdmins(Payload{
		Title: "Santunan disetujui",
		Body:  fmt.Sprintf("Santunan Rp %s untuk Alm. %s telah disetujui", amount.String(), memberName),
		URL:   "/santunan",
		Tag:   "claim-approved",
	})
}

func (n *Notifier) sendToAdmins(payload Payload) {
	admins, err := n.userStore.ListAdmins()
	if err != nil {
		n.logger.Error("list admins", "error", err)
		return
	}

	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}

	subs, err := n.pushStore.ListForUsers(ids)
	if err != nil {
		n.logger.Error("list subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := subs[i]
		if err := n.svc.Send(&sub, payload); err != nil {
			if err == ErrExpired {
				// Stale endpoint, drop it
				if derr := n.pushStore.DeleteByEndpoint(sub.Endpoint); derr != nil {
					n.logger.Error("delete expired subscription", "error", derr)
				}
				continue
			}
			n.logger.Error("send push", "endpoint", sub.Endpoint, "error", err)
		}
	}
}
