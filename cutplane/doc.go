// Package cutplane implements the cutting-plane learner of spec §4.8: a
// master-problem QP over cumulative cutting planes, solved by dual
// coordinate descent on gonum's dense matrices, with an optional
// line-search or local MERT sub-search between successive iterates
// (reusing package mert).
package cutplane
