// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/kraklabs/zstags/internal/errors"
)

// bashCompletionTemplate is the bash completion script for zstags.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for zstags
# Installation:
#   source <(zstags completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(zstags completion bash)' >> ~/.bashrc

_zstags_completion() {
    local cur prev commands
    commands="edit dump browse init status completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Directory arguments
    case "${prev}" in
        --source|-s|--target|-t|--db|--base)
            COMPREPLY=( $(compgen -d -- ${cur}) )
            return 0
            ;;
        --file|-f|--config|--metrics-file)
            COMPREPLY=( $(compgen -f -- ${cur}) )
            return 0
            ;;
        --foldop|-o)
            COMPREPLY=( $(compgen -W "\& \| ^" -- ${cur}) )
            return 0
            ;;
    esac

    # Find the command, skipping global flags
    local i cmd=""
    for (( i=1; i < COMP_CWORD; i++ )); do
        case "${COMP_WORDS[i]}" in
            -b|--backend|--config|--metrics-file) (( i++ )) ;;
            -*) ;;
            *) cmd="${COMP_WORDS[i]}"; break ;;
        esac
    done

    if [ -z "${cmd}" ]; then
        if [[ ${cur} == -* ]] ; then
            COMPREPLY=( $(compgen -W "--version --config --backend --json --no-color --quiet --verbose --metrics-file" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        fi
        return 0
    fi

    case "${cmd}" in
        edit)
            if [[ ${cur} == --* ]] ; then
                COMPREPLY=( $(compgen -W "--file" -- ${cur}) )
            fi
            ;;
        dump)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--source --all" -- ${cur}) )
            fi
            ;;
        browse)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--source --target --foldop" -- ${cur}) )
            fi
            ;;
        init)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--db --base --force --no-config" -- ${cur}) )
            fi
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            ;;
    esac
}

complete -F _zstags_completion zstags
`

// zshCompletionTemplate is the zsh completion script for zstags.
const zshCompletionTemplate = `#compdef zstags

# Zsh completion script for zstags
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      zstags completion zsh > "${fpath[1]}/_zstags"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_zstags() {
    local -a commands
    commands=(
        'edit:Add or remove tags on files'
        'dump:Print the tags of every file below a directory'
        'browse:Link files matching a tag query into a directory'
        'init:Create a tag database'
        'status:Show backend and database status'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--config[Path to config file]:config file:_files -g "*.yaml"' \
        '(-b --backend)'{-b,--backend}'[Backend spec]:spec:(xattr persy\:)' \
        '--json[Machine-readable JSON output]' \
        '--no-color[Disable colored output]' \
        '(-q --quiet)'{-q,--quiet}'[Suppress progress output]' \
        '*'{-v,--verbose}'[Increase log verbosity]' \
        '--metrics-file[Write backend metrics on exit]:file:_files' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                edit)
                    _arguments \
                        '*'{-f,--file}'[File to edit]:file:_files' \
                        '*:modifier:'
                    ;;
                dump)
                    _arguments \
                        '(-s --source)'{-s,--source}'[Directory to scan]:directory:_directories' \
                        '--all[List every path stored in the database]'
                    ;;
                browse)
                    _arguments \
                        '(-s --source)'{-s,--source}'[Source tree]:directory:_directories' \
                        '(-t --target)'{-t,--target}'[Link directory]:directory:_directories' \
                        '(-o --foldop)'{-o,--foldop}'[Fold operation]:op:(\& \| ^)' \
                        '*:tag:'
                    ;;
                init)
                    _arguments \
                        '--db[Database directory]:directory:_directories' \
                        '--base[Normalization base]:directory:_directories' \
                        '--force[Replace the configured backend]' \
                        '--no-config[Do not write the config file]'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_zstags
`

// fishCompletionTemplate is the fish completion script for zstags.
const fishCompletionTemplate = `# Fish completion script for zstags
# Installation:
#   1. Load completions for current session:
#      zstags completion fish | source
#   2. Install permanently:
#      zstags completion fish > ~/.config/fish/completions/zstags.fish

# Commands
complete -c zstags -f -n "__fish_use_subcommand" -a "edit" -d "Add or remove tags on files"
complete -c zstags -f -n "__fish_use_subcommand" -a "dump" -d "Print the tags of every file below a directory"
complete -c zstags -f -n "__fish_use_subcommand" -a "browse" -d "Link files matching a tag query into a directory"
complete -c zstags -f -n "__fish_use_subcommand" -a "init" -d "Create a tag database"
complete -c zstags -f -n "__fish_use_subcommand" -a "status" -d "Show backend and database status"
complete -c zstags -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# Global flags
complete -c zstags -l version -d "Show version and exit"
complete -c zstags -l config -r -d "Path to config file"
complete -c zstags -s b -l backend -r -d "Backend spec"
complete -c zstags -l json -d "Machine-readable JSON output"
complete -c zstags -l no-color -d "Disable colored output"
complete -c zstags -s q -l quiet -d "Suppress progress output"
complete -c zstags -s v -l verbose -d "Increase log verbosity"
complete -c zstags -l metrics-file -r -d "Write backend metrics on exit"

# edit
complete -c zstags -n "__fish_seen_subcommand_from edit" -s f -l file -r -d "File to edit"

# dump
complete -c zstags -n "__fish_seen_subcommand_from dump" -s s -l source -x -a "(__fish_complete_directories)" -d "Directory to scan"
complete -c zstags -n "__fish_seen_subcommand_from dump" -l all -d "List every path stored in the database"

# browse
complete -c zstags -n "__fish_seen_subcommand_from browse" -s s -l source -x -a "(__fish_complete_directories)" -d "Source tree"
complete -c zstags -n "__fish_seen_subcommand_from browse" -s t -l target -x -a "(__fish_complete_directories)" -d "Link directory"
complete -c zstags -n "__fish_seen_subcommand_from browse" -s o -l foldop -x -a "'&' '|' '^'" -d "Fold operation"

# init
complete -c zstags -n "__fish_seen_subcommand_from init" -l db -x -a "(__fish_complete_directories)" -d "Database directory"
complete -c zstags -n "__fish_seen_subcommand_from init" -l base -x -a "(__fish_complete_directories)" -d "Normalization base"
complete -c zstags -n "__fish_seen_subcommand_from init" -l force -d "Replace the configured backend"
complete -c zstags -n "__fish_seen_subcommand_from init" -l no-config -d "Do not write the config file"

# completion
complete -c zstags -f -n "__fish_seen_subcommand_from completion" -a "bash zsh fish" -d "Shell"
`

const completionUsage = `Usage: zstags completion <bash|zsh|fish>

Generates a shell completion script for zstags.

Examples:
  # Load bash completions in current shell
  source <(zstags completion bash)

  # Install zsh completions
  zstags completion zsh > "${fpath[1]}/_zstags"

  # Install fish completions
  zstags completion fish > ~/.config/fish/completions/zstags.fish

`

// completionScript returns the script for shell.
func completionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashCompletionTemplate, nil
	case "zsh":
		return zshCompletionTemplate, nil
	case "fish":
		return fishCompletionTemplate, nil
	}
	return "", errors.NewInputError(
		"Unsupported shell",
		fmt.Sprintf("Shell '%s' is not supported. Valid options: bash, zsh, fish", shell),
		"Run 'zstags completion bash', 'zstags completion zsh', or 'zstags completion fish'",
	)
}

// runCompletion executes the 'completion' CLI command.
func (a *app) runCompletion(args []string) error {
	fs := a.newFlagSet("completion", completionUsage)
	if stop, perr := parseFlags(fs, args); stop {
		return perr
	}

	if fs.NArg() != 1 {
		return errors.NewInputError(
			"Invalid arguments",
			"The completion command requires exactly one argument: the shell name",
			"Run 'zstags completion bash', 'zstags completion zsh', or 'zstags completion fish'",
		)
	}

	script, err := completionScript(fs.Arg(0))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.stdout, script)
	return err
}
