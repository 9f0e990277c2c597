package installer

import (
	"fmt"

	"site-installer/internal/domain"
	"site-installer/internal/logger"
)

// Delete tears down a site via the control plane and drops its state record.
// Unknown domains are still deleted when the operator insists: the state
// file only knows about sites this tool created, and cleaning up a site made
// directly in CloudPanel is a legitimate use.
func (ins *Installer) Delete(domainName string, assumeYes bool) error {
	if err := domain.Validate(domainName); err != nil {
		return err
	}
	domainName = domain.Normalize(domainName)

	if _, known := ins.State.Sites[domainName]; !known {
		logger.Warn("[WARN] %s is not recorded in the local state (installed by another tool?).\n", domainName)
	}

	if !assumeYes {
		ok, err := ins.Prompt.Confirm(fmt.Sprintf("Really delete %s and all its data?", domainName))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted")
		}
	}

	if err := ins.Panel.DeleteSite(domainName, true); err != nil {
		return fmt.Errorf("site deletion failed: %w", err)
	}

	delete(ins.State.Sites, domainName)
	logger.Info("[INFO] Site %s deleted.\n", domainName)
	return nil
}
