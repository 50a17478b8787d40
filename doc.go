// Package dcf values property investments with discounted cash flows.
//
// The core functionalities include:
//   - Cash-flow projection: a year-by-year ledger of rent, vacancy, operating
//     expenses, debt service and resale, discounted to present value. Projections
//     are computed with exact rationals so that the same inputs always give the same
//     ledger.
//   - Investment metrics: net present value, internal rate of return (Brent's method)
//     and simple or discounted payback periods.
//   - Monte Carlo simulation: rent growth, discount and interest rates drawn from
//     constant, normal or Pareto distributions, with a reference path projecting each
//     draw exactly and a vectorized path computing batches of draws as matrices.
//     Simulations progress in batches that can be streamed and interrupted.
//   - Scenario files: assumptions encoded in JSON lines or YAML.
//
// This package serves as the foundational logic for the `pvs` command-line tool and its
// HTTP API.
package dcf
