package usb

import (
	"fmt"
	"strings"

	"usbpass/logger"
)

// Mutation is an optional attach or detach applied after reconciliation.
type Mutation struct {
	Op       Operation
	Identity DeviceIdentity
}

// Request describes one inventory pass.
type Request struct {
	Guest    string
	Mutation *Mutation
}

// Scan is the reconciled view handed to the presenter.
type Scan struct {
	Guest     string
	Inventory HostInventory
	Attached  AttachedSet
	Devices   []DeviceStatus
}

// Result is the outcome of Run. MutationErr is set when the requested mutation
// failed; the scan is still valid.
type Result struct {
	Scan        Scan
	Mutated     bool
	MutationErr error
}

// Run opens one session, reads the guest then the host, presents the
// reconciliation and applies the requested mutation, if any. The session is
// closed before Run returns.
func Run(open Opener, req Request, present func(Scan) error) (*Result, error) {
	name := strings.TrimSpace(req.Guest)
	if name == "" {
		return nil, fmt.Errorf("vm name is empty")
	}

	s, err := open(req.Mutation == nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("closing hypervisor session", "error", err)
		}
	}()

	guest, err := s.FindGuest(name)
	if err != nil {
		return nil, err
	}

	attached, err := ExtractAttached(guest)
	if err != nil {
		return nil, err
	}

	inventory, err := BuildHostInventory(s)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Scan: Scan{
			Guest:     guest.Name(),
			Inventory: inventory,
			Attached:  attached,
			Devices:   Reconcile(inventory, attached),
		},
	}
	if present != nil {
		if err := present(res.Scan); err != nil {
			return nil, fmt.Errorf("present devices: %w", err)
		}
	}

	if req.Mutation == nil {
		return res, nil
	}

	res.Mutated = true
	res.MutationErr = Apply(guest, req.Mutation.Op, req.Mutation.Identity)
	if res.MutationErr != nil {
		logger.Error("usb mutation failed", "op", req.Mutation.Op.String(), "id", req.Mutation.Identity.String(), "error", res.MutationErr)
	} else {
		logger.Info("usb mutation applied", "op", req.Mutation.Op.String(), "id", req.Mutation.Identity.String(), "vm", guest.Name())
	}
	return res, nil
}
