package installer

import (
	"fmt"
	"os"
	"strings"

	"torchenv/internal/cuda"
	"torchenv/internal/logging"
	"torchenv/internal/pip"
)

// TorchPackage is the package whose build variant setup manages
const TorchPackage = "torch"

// Options carries the host-specific knobs for an installer
type Options struct {
	// Toolchain lists the packaging packages upgraded before installing
	Toolchain []string
	// Publisher is the publishing tool installed after torch
	Publisher string
	// TempDir is removed at the end of a setup run
	TempDir string
	// IndexOverrides maps CUDA versions to mirror index URLs
	IndexOverrides map[string]string
	// IndexToken authenticates requests against override indexes
	IndexToken string
}

// Installer ensures the host carries the requested torch build
type Installer struct {
	manager pip.Manager
	logger  *logging.Logger
	opts    Options
}

// New creates an installer driving the given package manager
func New(manager pip.Manager, logger *logging.Logger, opts Options) *Installer {
	return &Installer{
		manager: manager,
		logger:  logger,
		opts:    opts,
	}
}

// ResolveIndexURL returns the package index URL serving builds for a CUDA
// version, preferring configured mirror overrides. The empty string means
// the primary index.
func (i *Installer) ResolveIndexURL(cudaVersion string) (string, error) {
	dotted, err := cuda.Normalize(cudaVersion)
	if err != nil {
		return "", err
	}

	if override, ok := i.opts.IndexOverrides[dotted]; ok {
		return authenticateIndexURL(override, i.opts.IndexToken), nil
	}

	url, err := cuda.IndexURL(dotted)
	if err != nil {
		return "", err
	}
	return url, nil
}

// EnsureTorch makes sure the torch build matching the requested CUDA and
// torch versions is installed. When the installed build already matches,
// nothing is mutated, so repeated calls are no-ops.
func (i *Installer) EnsureTorch(cudaVersion, torchVersion string) error {
	dotted, err := cuda.Normalize(cudaVersion)
	if err != nil {
		return err
	}

	installed, err := i.manager.InstalledVersion(TorchPackage)
	if err != nil {
		return fmt.Errorf("failed to probe installed torch: %w", err)
	}

	if buildMatches(installed, torchVersion, dotted) {
		i.logger.Info("setup.torch.skip", "Requested torch build already installed", map[string]interface{}{
			"installed": installed,
			"cuda":      dotted,
		})
		return nil
	}

	if installed != pip.NoTorch {
		i.logger.Info("setup.torch.uninstall", "Removing mismatched torch build", map[string]interface{}{
			"installed": installed,
			"requested": torchVersion,
		})
		if err := i.manager.Uninstall(TorchPackage); err != nil {
			return fmt.Errorf("failed to uninstall torch: %w", err)
		}
	}

	indexURL, err := i.ResolveIndexURL(dotted)
	if err != nil {
		return err
	}

	tag, err := cuda.Tag(dotted)
	if err != nil {
		return err
	}
	spec := fmt.Sprintf("%s==%s+%s", TorchPackage, torchVersion, tag)

	i.logger.Info("setup.torch.install", "Installing torch build", map[string]interface{}{
		"spec":  spec,
		"index": redactIndexURL(indexURL),
	})

	if err := i.manager.Install(spec, indexURL); err != nil {
		return fmt.Errorf("failed to install %s: %w", spec, err)
	}
	return nil
}

// Setup runs the full provisioning sequence: toolchain upgrade, torch
// install, publisher install, then cache and temp cleanup. Cleanup
// failures are tolerated; everything else aborts.
func (i *Installer) Setup(cudaVersion, torchVersion, pythonVersion string) error {
	dotted, err := cuda.Normalize(cudaVersion)
	if err != nil {
		return err
	}
	python, err := NormalizePython(pythonVersion)
	if err != nil {
		return err
	}

	wheelName, err := WheelFilename(dotted, torchVersion, python)
	if err != nil {
		return err
	}
	i.logger.Info("setup.start", "Provisioning torch environment", map[string]interface{}{
		"cuda":   dotted,
		"torch":  torchVersion,
		"python": python,
		"wheel":  wheelName,
	})

	if len(i.opts.Toolchain) > 0 {
		i.logger.Info("setup.toolchain.upgrade", "Upgrading packaging toolchain", map[string]interface{}{
			"packages": strings.Join(i.opts.Toolchain, " "),
		})
		if err := i.manager.Upgrade(i.opts.Toolchain...); err != nil {
			return fmt.Errorf("failed to upgrade packaging toolchain: %w", err)
		}
	}

	if err := i.EnsureTorch(dotted, torchVersion); err != nil {
		return err
	}

	if i.opts.Publisher != "" {
		i.logger.Info("setup.publisher.install", "Installing publishing tool", map[string]interface{}{
			"package": i.opts.Publisher,
		})
		if err := i.manager.Install(i.opts.Publisher, ""); err != nil {
			return fmt.Errorf("failed to install %s: %w", i.opts.Publisher, err)
		}
	}

	if err := i.manager.PurgeCache(); err != nil {
		i.logger.Warn("setup.cache.purge_failed", "Failed to purge package cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if i.opts.TempDir != "" {
		if err := os.RemoveAll(i.opts.TempDir); err != nil {
			i.logger.Warn("setup.tempdir.remove_failed", "Failed to remove temp directory", map[string]interface{}{
				"path":  i.opts.TempDir,
				"error": err.Error(),
			})
		}
	}

	i.logger.Info("setup.complete", "Environment provisioning finished", map[string]interface{}{
		"cuda":  dotted,
		"torch": torchVersion,
	})
	return nil
}

// buildMatches reports whether the installed version string already names
// the requested torch build. Installed builds carry a local-version tag
// after "+" identifying their CUDA variant.
func buildMatches(installed, torchVersion, cudaVersion string) bool {
	if installed == pip.NoTorch || installed == "" {
		return false
	}

	base, tag, found := strings.Cut(installed, "+")
	if !found {
		return false
	}
	return base == torchVersion && cuda.TagMatches(tag, cudaVersion)
}

// authenticateIndexURL embeds a token into a mirror URL in the scheme
// pip understands for token auth. Untouched when no token is configured.
func authenticateIndexURL(url, token string) string {
	if token == "" {
		return url
	}
	for _, scheme := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(url, scheme); ok {
			return scheme + "__token__:" + token + "@" + rest
		}
	}
	return url
}

// redactIndexURL strips embedded credentials before logging
func redactIndexURL(url string) string {
	at := strings.Index(url, "@")
	if at < 0 {
		return url
	}
	scheme := strings.Index(url, "://")
	if scheme < 0 || scheme+3 > at {
		return url
	}
	return url[:scheme+3] + "[REDACTED]@" + url[at+1:]
}
