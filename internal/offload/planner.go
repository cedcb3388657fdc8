package offload

// tierPlanner is the built-in two-tier placement pass.
type tierPlanner struct{}

// place moves components to the host tier according to the profile.
//
//   - budgetMB > 0: any component larger than the per-component budget is
//     moved to host; the rest stay where they are.
//   - budgetMB == 0, profile 1: maximal offload, every component to host.
//   - budgetMB == 0, profile 3: balanced, keep components on the accelerator
//     until half the total size is resident, then offload the remainder.
//     Component order is the extraction order, which the runtime lists from
//     most to least frequently used.
func (tierPlanner) place(comps []*Component, profile, budgetMB int) (int, error) {
	moved := 0
	if budgetMB > 0 {
		for _, c := range comps {
			if c.SizeMB > budgetMB && c.Tier != TierHost {
				c.Tier = TierHost
				moved++
			}
		}
		return moved, nil
	}

	switch profile {
	case ProfileMaxOffload:
		for _, c := range comps {
			if c.Tier != TierHost {
				c.Tier = TierHost
				moved++
			}
		}
		return moved, nil
	case ProfileBalanced:
		total := 0
		for _, c := range comps {
			total += c.SizeMB
		}
		resident := 0
		for _, c := range comps {
			if resident+c.SizeMB <= total/2 {
				resident += c.SizeMB
				c.Tier = TierAccelerator
				continue
			}
			if c.Tier != TierHost {
				c.Tier = TierHost
				moved++
			}
		}
		return moved, nil
	default:
		// Unreachable through Apply, which hands custom profiles a budget.
		return 0, nil
	}
}
