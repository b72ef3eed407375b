// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sdkops/internal/container"
	"sdkops/internal/issue"
)

// newEngine resolves the container engine; a variable for test injection.
var newEngine = container.NewEngine

var (
	imageRegistry   string
	imageTag        string
	imageName       string
	imageEngine     string
	imageContext    string
	imageDockerfile string
	imageNoBuild    bool
	imageNoCache    bool

	// imageCmd builds and optionally publishes the toolchain image
	imageCmd = &cobra.Command{
		Use:   "image",
		Short: "Build and optionally publish the toolchain container image",
		Long: `Build the container image bundling multiple SDK versions, then
optionally retag it for a registry and push it.

The sequence is: engine availability check, build (skipped with
--no-build), tag and push (only when --registry is set), and an
informational listing of the resulting local images. Any engine
failure stops the sequence immediately with exit code 1.`,
		RunE: runImage,
	}
)

func init() {
	imageCmd.Flags().StringVarP(&imageRegistry, "registry", "r", "", "registry to tag and push the image to (push is skipped when empty)")
	imageCmd.Flags().StringVarP(&imageTag, "tag", "t", "", "image tag (default from config, \"latest\")")
	imageCmd.Flags().StringVar(&imageName, "image", "", "image repository name (default from config, \"sdkops/toolchain\")")
	imageCmd.Flags().StringVar(&imageEngine, "engine", "", "container engine to use: docker, podman, or auto (default from config)")
	imageCmd.Flags().StringVar(&imageContext, "context", ".", "build context directory")
	imageCmd.Flags().StringVar(&imageDockerfile, "dockerfile", "Dockerfile", "Dockerfile path relative to the build context")
	imageCmd.Flags().BoolVar(&imageNoBuild, "no-build", false, "skip the build step (tag/push an already-built image)")
	imageCmd.Flags().BoolVar(&imageNoCache, "no-cache", false, "disable the engine build cache")
}

func runImage(cmd *cobra.Command, args []string) error {
	conf := loadedConfig()
	logger := newLogger()

	registry := conf.Registry
	if cmd.Flags().Changed("registry") {
		registry = imageRegistry
	}
	tag := conf.Tag
	if cmd.Flags().Changed("tag") {
		tag = imageTag
	}
	name := conf.Image
	if cmd.Flags().Changed("image") {
		name = imageName
	}
	engineType := conf.ContainerEngine
	if cmd.Flags().Changed("engine") {
		engineType = imageEngine
	}

	fatal := func(err error) error {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1}
	}

	// The availability check comes first: without an engine no build,
	// tag, or push step is attempted.
	engine, err := newEngine(container.EngineType(engineType))
	if err != nil {
		return fatal(err)
	}

	ctx := cmd.Context()
	if engineVersion, verr := engine.Version(ctx); verr == nil {
		logger.Debug("container engine selected", "engine", engine.Name(), "version", engineVersion)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s using %s\n", SubtitleStyle.Render("engine:"), CmdStyle.Render(engine.Name()))

	localImage := name + ":" + tag

	if imageNoBuild {
		// Without a build step the image must already be present locally,
		// otherwise the later tag/push would fail with a confusing engine
		// error.
		exists, eerr := engine.ImageExists(ctx, localImage)
		if eerr != nil {
			return fatal(eerr)
		}
		if !exists {
			return fatal(issue.NewErrorContext().
				WithOperation("find prebuilt image").
				WithResource(localImage).
				WithSuggestion("Run without --no-build to build the image first").
				WithSuggestion("Check the local images (try: " + engine.Name() + " images)").
				BuildError())
		}
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("skipping build (--no-build)"))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SubtitleStyle.Render("building:"), CmdStyle.Render(localImage))
		err := engine.Build(ctx, container.BuildOptions{
			ContextDir: imageContext,
			Dockerfile: imageDockerfile,
			Tag:        localImage,
			NoCache:    imageNoCache,
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s built %s\n", SuccessStyle.Render("✓"), localImage)
	}

	if registry != "" {
		target := registry + "/" + localImage

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SubtitleStyle.Render("tagging:"), CmdStyle.Render(target))
		if err := engine.Tag(ctx, localImage, target); err != nil {
			return fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SubtitleStyle.Render("pushing:"), CmdStyle.Render(target))
		if err := engine.Push(ctx, target, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s pushed %s\n", SuccessStyle.Render("✓"), target)
	}

	// Informational listing; a failure here does not affect the outcome.
	if listing, lerr := engine.Images(ctx, name); lerr == nil {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Local images:"))
		fmt.Fprint(cmd.OutOrStdout(), listing)
	} else {
		logger.Warn("could not list local images", "err", lerr)
	}

	return nil
}
