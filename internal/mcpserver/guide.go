package mcpserver

// MatrixGuide describes the quadrant framework for LLM consumers, so tools
// can place and explain tasks consistently.
const MatrixGuide = `# The Fehu Matrix

A simple framework for classifying tasks along two axes:

- **Energy**: does the task replenish ("gives") or drain ("takes") you?
- **Money**: does the task earn ("makes") or cost ("takes") money?

The two axes combine into four quadrants:

## 1. PROTECT: gives energy, takes money
Hobbies, health, family. These cost money but recharge you.
Protect them; they prevent burnout.

## 2. PRIORITIZE: gives energy, makes money
Dream business, high-value work. The sweet spot: spend as much
time here as possible.

## 3. DELETE: takes energy, takes money
Bad habits, dumb expenses. Drains you AND your wallet.
Eliminate ruthlessly.

## 4. DELEGATE: takes energy, makes money
Admin, chores, grunt work. Necessary evils that pay the bills but
drain you. Hand them off as soon as you can.

## Classification rules

1. Exact learned rules (from user corrections) always win.
2. A fixed table of phrase overrides is checked next.
3. Otherwise keywords and stems vote on each axis, nudged by partial
   matches against learned rules.

When the user disagrees with a suggestion, record the correction with the
learn_rule tool (or create the task with explicit energy/money values);
the exact normalized title is remembered and reused.
`
