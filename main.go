// SPDX-License-Identifier: MPL-2.0

package main

import cmd "sdkops/cmd/sdkops"

func main() {
	cmd.Execute()
}
