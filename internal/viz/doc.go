// Package viz presents run statistics in the terminal.
//
// Bodies are never drawn; the package charts what the engine reports:
//
//   - [Report]: a plain-text summary with asciigraph charts for headless runs
//   - [Dashboard]: a Bubble Tea program that ticks a system and shows frame,
//     timestep, population, merges and tick time as they change
//
// # Key Bindings
//
//	q     - Quit
//	p     - Pause/Resume
//	+/-   - Double/halve the timestep (ignored outside the allowed range)
//	c     - Toggle collisions
//	v     - Toggle comets in the population view
//	r     - Rebuild the scenario
package viz
