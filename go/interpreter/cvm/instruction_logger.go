// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cvm

import (
	"fmt"
	"io"
)

// loggingRunner is a runner that logs the execution of the contract code to
// an io.Writer. A nil writer disables the log.
type loggingRunner struct {
	log io.Writer
}

// newLogger creates a new logging runner that writes to the provided
// io.Writer.
func newLogger(writer io.Writer) loggingRunner {
	return loggingRunner{log: writer}
}

func (l loggingRunner) run(c *context) (status, error) {
	status := statusRunning
	var err error
	for status == statusRunning {
		// log format: <instruction>, <ref_time left>, <top-of-stack>\n
		if c.pc < len(c.code) && l.log != nil {
			top := "-empty-"
			if c.stack.len() > c.stackBase {
				top = fmt.Sprintf("%d", c.stack.peekN(0))
			}
			_, err = fmt.Fprintf(l.log, "%v, %d, %v\n", c.code[c.pc], c.meter.Remaining().RefTime, top)
			if err != nil {
				return statusFailed, err
			}
		}
		status, err = step(c)
		if err != nil {
			return statusFailed, err
		}
	}
	return status, nil
}
