package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	errorRepositoryFmt = ".git directory not found in or above %s"
)

// GetApplicationVersion reports the module version from build information and falls back
// to git describe when llmpack runs from a source checkout.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	repositoryRoot, repositoryError := findRepositoryRoot(selfRelativePath)
	if repositoryError != nil {
		return unknownVersion
	}
	describeArguments := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeArguments {
		// #nosec G204
		describeCommand := exec.Command(gitExecutableName, arguments...)
		describeCommand.Dir = repositoryRoot
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findRepositoryRoot walks upward from startDirectory to the first directory holding a .git folder.
func findRepositoryRoot(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, absoluteError)
	}

	candidateDirectory := absoluteStartDirectory
	for {
		gitPath := filepath.Join(candidateDirectory, GitDirectoryName)
		if fileInformation, statError := os.Stat(gitPath); statError == nil && fileInformation.IsDir() {
			return candidateDirectory, nil
		}
		parentDirectory := filepath.Dir(candidateDirectory)
		if parentDirectory == candidateDirectory {
			break
		}
		candidateDirectory = parentDirectory
	}
	return "", fmt.Errorf(errorRepositoryFmt, absoluteStartDirectory)
}
