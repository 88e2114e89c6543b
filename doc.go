// Package astar provides a generic best-first (A*-style) search engine over
// an abstract state-transition model.
//
// A domain plugs in by implementing Problem for its own State and action
// types. The engine owns the frontier, the closed set and the best-known
// cost per state; it never inspects states beyond their Key.
//
// It exposes two entry points:
//
//   - Search: run the loop to completion and get a Result.
//   - Stepper: advance the same loop one transition at a time to drive UIs or debugging tools.
//
// No heuristic term is added to the priority, so the search behaves as
// uniform-cost search. Frontier ties are broken first-in first-out.
package astar
