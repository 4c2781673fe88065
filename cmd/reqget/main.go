// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import "github.com/gogama/reqx/internal/cli"

func main() {
	cli.Execute()
}
