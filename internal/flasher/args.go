// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

// Args builders for the flasher's verbs. Every verb takes the download
// agent path via -d and an optional preloader via -p.

func withAgent(args []string, daPath, preloaderPath string) []string {
	args = append(args, "-d", daPath)

	if preloaderPath != "" {
		args = append(args, "-p", preloaderPath)
	}

	return args
}

// ReadArgs dumps a partition to a local file.
func ReadArgs(partition, outPath, daPath, preloaderPath string) []string {
	return withAgent([]string{"upload", partition, outPath}, daPath, preloaderPath)
}

// WriteArgs flashes a local image to a partition.
func WriteArgs(partition, imagePath, daPath, preloaderPath string) []string {
	return withAgent([]string{"download", partition, imagePath}, daPath, preloaderPath)
}

// EraseArgs erases a partition.
func EraseArgs(partition, daPath, preloaderPath string) []string {
	return withAgent([]string{"erase", partition}, daPath, preloaderPath)
}

// FormatArgs formats a partition.
func FormatArgs(partition, daPath, preloaderPath string) []string {
	return withAgent([]string{"format", partition}, daPath, preloaderPath)
}

// PartitionTableArgs prints the device partition table.
func PartitionTableArgs(daPath, preloaderPath string) []string {
	return withAgent([]string{"pgpt"}, daPath, preloaderPath)
}

// ReadAllArgs dumps every partition into outDir, skipping the named
// partitions.
func ReadAllArgs(outDir, daPath, preloaderPath string, skip []string) []string {
	args := []string{"read-all", outDir}

	for _, s := range skip {
		args = append(args, "--skip", s)
	}

	return withAgent(args, daPath, preloaderPath)
}

// RebootArgs reboots the device into the given mode.
func RebootArgs(mode, daPath, preloaderPath string) []string {
	return withAgent([]string{"reboot", mode}, daPath, preloaderPath)
}

// ShutdownArgs powers the device off.
func ShutdownArgs(daPath, preloaderPath string) []string {
	return withAgent([]string{"shutdown"}, daPath, preloaderPath)
}

// SeccfgArgs performs a security config action (lock or unlock).
func SeccfgArgs(action, daPath, preloaderPath string) []string {
	return withAgent([]string{"seccfg", action}, daPath, preloaderPath)
}
